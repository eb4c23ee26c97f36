package apperr

import (
	"errors"

	"github.com/gin-gonic/gin"
)

type response struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// JSON writes the stable {kind, message} error body. Internal errors get a
// generic message so storage/transport detail never leaks to the caller.
func JSON(c *gin.Context, err error) {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		c.JSON(Status(err), response{Kind: e.Kind, Message: e.Message})
		return
	}
	c.JSON(Status(err), response{Kind: KindInternal, Message: "internal server error"})
}
