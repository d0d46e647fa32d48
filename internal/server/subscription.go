package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/quidflow/quidflow/internal/subscription/domain"
	"github.com/quidflow/quidflow/internal/tier"
)

type changeTierRequest struct {
	Tier string `json:"tier"`
}

type startTrialRequest struct {
	Tier string `json:"tier"`
}

func (s *Server) GetSubscription(c *gin.Context) {
	sub, err := s.subscriptionSvc.GetOrCreate(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sub})
}

func (s *Server) GetSubscriptionHistory(c *gin.Context) {
	history, err := s.subscriptionSvc.History(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": history})
}

// GetUpgradePath returns the recommended next step from the user's
// current tier.
func (s *Server) GetUpgradePath(c *gin.Context) {
	sub, err := s.subscriptionSvc.GetOrCreate(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	step, err := tier.NextUpgrade(sub.Tier)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": step})
}

func (s *Server) ChangeTier(c *gin.Context) {
	var req changeTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sub, err := s.subscriptionSvc.ChangeTier(c.Request.Context(), subscriptiondomain.ChangeTierRequest{
		Tier: tier.ID(strings.TrimSpace(req.Tier)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sub})
}

func (s *Server) StartTrial(c *gin.Context) {
	var req startTrialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sub, err := s.subscriptionSvc.StartTrial(c.Request.Context(), subscriptiondomain.StartTrialRequest{
		Tier: tier.ID(strings.TrimSpace(req.Tier)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sub})
}

func (s *Server) CancelSubscription(c *gin.Context) {
	sub, err := s.subscriptionSvc.Cancel(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sub})
}
