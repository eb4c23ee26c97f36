package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/craftcart/commerce-api/apperr"
)

const principalKey = "principal"

// Principal is the authenticated identity attached by the external auth
// service. This API never verifies credentials; it only checks the token
// signature and reads the claims.
type Principal struct {
	ID      string
	IsAdmin bool
}

// Auth validates the bearer token and stores the principal on the context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
		if tokenString == "" {
			apperr.JSON(c, apperr.New(apperr.KindUnauthorized, "authorization header is missing"))
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid token signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			apperr.JSON(c, apperr.New(apperr.KindUnauthorized, "invalid or expired token"))
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			apperr.JSON(c, apperr.New(apperr.KindUnauthorized, "invalid token claims"))
			c.Abort()
			return
		}

		p := Principal{}
		if id, ok := claims["user_id"].(string); ok {
			p.ID = id
		} else if sub, ok := claims["sub"].(string); ok {
			p.ID = sub
		}
		if p.ID == "" {
			apperr.JSON(c, apperr.New(apperr.KindUnauthorized, "token carries no user id"))
			c.Abort()
			return
		}
		if isAdmin, ok := claims["is_admin"].(bool); ok {
			p.IsAdmin = isAdmin
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// AdminOnly gates privileged routes. It must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			apperr.JSON(c, apperr.New(apperr.KindUnauthorized, "authentication required"))
			c.Abort()
			return
		}
		if !p.IsAdmin {
			apperr.JSON(c, apperr.New(apperr.KindForbidden, "admin privileges required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// SetPrincipal is for tests wiring a principal without a real token.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}
