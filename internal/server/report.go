package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	reportdomain "github.com/quidflow/quidflow/internal/report/domain"
)

type generateReportRequest struct {
	Kind string `json:"kind"`
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *Server) GenerateReport(c *gin.Context) {
	var req generateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := time.Parse(time.RFC3339, strings.TrimSpace(req.From))
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid timestamp"))
		return
	}
	to, err := time.Parse(time.RFC3339, strings.TrimSpace(req.To))
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid timestamp"))
		return
	}

	kind := reportdomain.Kind(strings.TrimSpace(req.Kind))
	rep, err := s.reportSvc.Generate(c.Request.Context(), reportdomain.GenerateReportRequest{
		Kind: kind,
		From: from,
		To:   to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.RecordReportGenerated(c.Request.Context(), string(kind))
	c.JSON(http.StatusOK, gin.H{"data": rep})
}

func (s *Server) ListReports(c *gin.Context) {
	reports, err := s.reportSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reports})
}

func (s *Server) GetReportByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rep, err := s.reportSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rep})
}
