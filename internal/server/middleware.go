package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quidflow/quidflow/internal/usercontext"
)

// UserAuthRequired resolves the acting user from the X-User-Id header
// set by the upstream auth proxy and stores it in the request context.
func (s *Server) UserAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if userID == "" {
			userID = strings.TrimSpace(c.GetHeader("X-User-ID"))
		}
		if userID == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := usercontext.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)
		c.Set("user_id", userID)
		c.Next()
	}
}
