package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"shorter/internal/entities"
	"shorter/internal/service"
)

// UserKey is the gin context key holding the authenticated *entities.User
const UserKey = "user"

// BasicAuthMiddleware requires HTTP Basic credentials known to authService
func BasicAuthMiddleware(authService service.AuthService, realm string, logger *slog.Logger) gin.HandlerFunc {
	challenge := `Basic realm="` + realm + `"`

	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			unauthorized(c, challenge)
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			if !errors.Is(err, service.ErrUnauthenticated) {
				logger.Error("authentication failed", slog.String("username", username), slog.Any("error", err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			unauthorized(c, challenge)
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

func unauthorized(c *gin.Context, challenge string) {
	c.Header("WWW-Authenticate", challenge)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
}

// CurrentUser returns the user set by BasicAuthMiddleware
func CurrentUser(c *gin.Context) (*entities.User, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*entities.User)
	return user, ok
}
