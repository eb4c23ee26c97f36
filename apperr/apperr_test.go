package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := New(KindNotFound, "gone")
	assert.Equal(t, KindNotFound, KindOf(err))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.Equal(t, KindNotFound, KindOf(wrapped))

	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindBadRequest))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Wrap(KindInternal, "order write failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "order write failed")
}

func TestStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:           http.StatusNotFound,
		KindBadRequest:         http.StatusBadRequest,
		KindEmptyOrder:         http.StatusBadRequest,
		KindSignatureMismatch:  http.StatusBadRequest,
		KindInvalidTransition:  http.StatusConflict,
		KindGatewayUnavailable: http.StatusBadGateway,
		KindUnauthorized:       http.StatusUnauthorized,
		KindForbidden:          http.StatusForbidden,
		KindInternal:           http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, Status(New(kind, "x")), string(kind))
	}
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("plain")))
}
