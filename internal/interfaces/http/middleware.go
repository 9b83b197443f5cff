package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/pt-logbook/internal/domain/entity"
)

const userContextKey = "user"

// authMiddleware resolves the session from the cookie or a bearer token and
// rejects the request when it is missing or expired
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, s.config.SessionCookie)
		user, err := s.services.Auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "authentication required",
			})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// sessionToken prefers an Authorization bearer token over the cookie
func sessionToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

func currentUser(c *gin.Context) *entity.User {
	return c.MustGet(userContextKey).(*entity.User)
}
