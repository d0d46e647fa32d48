package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quidflow/quidflow/internal/tier"
	"github.com/quidflow/quidflow/internal/usercontext"
)

func (s *Server) GetAccessSummary(c *gin.Context) {
	summary, err := s.entitlementSvc.Summary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// CheckFeature answers "can I use this feature" without performing the
// gated action. A denial is a 200 with allowed=false.
func (s *Server) CheckFeature(c *gin.Context) {
	feature := tier.Feature(strings.TrimSpace(c.Param("feature")))
	decision, err := s.entitlementSvc.CheckFeature(c.Request.Context(), feature)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": decision})
}

// CheckLimit answers the same question for usage ceilings, reading the
// current period's live counter.
func (s *Server) CheckLimit(c *gin.Context) {
	limit := tier.Limit(strings.TrimSpace(c.Param("limit")))
	decision, err := s.entitlementSvc.CheckUsage(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": decision})
}

// GetUsage returns all of the user's counters for the current period.
func (s *Server) GetUsage(c *gin.Context) {
	userID, ok := usercontext.UserIDFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	snapshot, err := s.usageSvc.Snapshot(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snapshot})
}
