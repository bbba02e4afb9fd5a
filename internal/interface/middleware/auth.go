package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oktavandi/tasknest/internal/application"
	"github.com/oktavandi/tasknest/pkg/response"
)

const CtxUserIDKey = "userID"

// BearerAuth validates the Authorization header and resolves the token
// to an existing user. It sets userID in the Gin context on success.
func BearerAuth(auth *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing token", nil)
			return
		}
		u, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, application.ErrInvalidToken) {
				response.AbortError(c, http.StatusUnauthorized, "invalid token", nil)
				return
			}
			response.AbortError(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}
		c.Set(CtxUserIDKey, u.ID)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
