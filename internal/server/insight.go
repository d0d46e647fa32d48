package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	insightdomain "github.com/quidflow/quidflow/internal/insight/domain"
)

type queryInsightRequest struct {
	Question string `json:"question"`
}

type forecastRequest struct {
	Days int `json:"days"`
}

func (s *Server) QueryInsight(c *gin.Context) {
	var req queryInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	insight, err := s.insightSvc.Query(c.Request.Context(), insightdomain.QueryRequest{
		Question: strings.TrimSpace(req.Question),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.RecordAIQuery(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"data": insight})
}

func (s *Server) GenerateInsights(c *gin.Context) {
	insights, err := s.insightSvc.Generate(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": insights})
}

func (s *Server) ForecastCashflow(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	forecast, err := s.insightSvc.Forecast(c.Request.Context(), insightdomain.ForecastRequest{
		Days: req.Days,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": forecast})
}

func (s *Server) ListInsights(c *gin.Context) {
	insights, err := s.insightSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": insights})
}

func (s *Server) DismissInsight(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.insightSvc.Dismiss(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"dismissed": true}})
}
