package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/push-api/pkg/auth"
	"github.com/jwalitptl/push-api/pkg/errors"
	"github.com/jwalitptl/push-api/pkg/httputil"
)

const ContextSubject = "auth_subject"

type AuthMiddleware struct {
	jwt auth.JWTService
}

func NewAuthMiddleware(jwt auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// Authenticate verifies the bearer token and stores its subject in the
// context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httputil.RespondWithError(c, errors.Unauthorized(nil), http.StatusUnauthorized)
			return
		}

		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || token == "" {
			httputil.RespondWithError(c, errors.Unauthorized(nil), http.StatusUnauthorized)
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			httputil.RespondWithError(c, errors.Unauthorized(err), http.StatusUnauthorized)
			return
		}

		c.Set(ContextSubject, claims.Subject)
		c.Next()
	}
}
