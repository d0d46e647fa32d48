package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	businessdomain "github.com/quidflow/quidflow/internal/business/domain"
)

// maxReceiptBytes caps uploaded receipt images at 10 MiB.
const maxReceiptBytes = 10 << 20

type createBusinessRequest struct {
	Name string `json:"name"`
}

type vatConfigRequest struct {
	VATRegistered bool    `json:"vat_registered"`
	VATNumber     string  `json:"vat_number"`
	VATScheme     string  `json:"vat_scheme"`
	VATRate       float64 `json:"vat_rate"`
}

type createClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type createProjectRequest struct {
	ClientID        string `json:"client_id"`
	Name            string `json:"name"`
	HourlyRateMinor *int64 `json:"hourly_rate_minor"`
}

func (s *Server) CreateBusiness(c *gin.Context) {
	var req createBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	biz, err := s.businessSvc.CreateBusiness(c.Request.Context(), businessdomain.CreateBusinessRequest{
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": biz})
}

func (s *Server) GetBusiness(c *gin.Context) {
	biz, err := s.businessSvc.GetBusiness(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": biz})
}

func (s *Server) UpdateVATConfig(c *gin.Context) {
	var req vatConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	biz, err := s.businessSvc.UpdateVATConfig(c.Request.Context(), businessdomain.VATConfigRequest{
		VATRegistered: req.VATRegistered,
		VATNumber:     strings.TrimSpace(req.VATNumber),
		VATScheme:     strings.TrimSpace(req.VATScheme),
		VATRate:       req.VATRate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": biz})
}

func (s *Server) GetVATReturn(c *gin.Context) {
	from, to, err := parsePeriodQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ret, err := s.businessSvc.GetVATReturn(c.Request.Context(), businessdomain.VATReturnRequest{
		From: from,
		To:   to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ret})
}

func (s *Server) CreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	client, err := s.businessSvc.CreateClient(c.Request.Context(), businessdomain.CreateClientRequest{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": client})
}

func (s *Server) ListClients(c *gin.Context) {
	clients, err := s.businessSvc.ListClients(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": clients})
}

func (s *Server) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	create := businessdomain.CreateProjectRequest{
		Name:            strings.TrimSpace(req.Name),
		HourlyRateMinor: req.HourlyRateMinor,
	}
	if req.ClientID != "" {
		id, err := snowflake.ParseString(req.ClientID)
		if err != nil {
			AbortWithError(c, newValidationError("client_id", "invalid_client_id", "invalid client id"))
			return
		}
		create.ClientID = &id
	}

	project, err := s.businessSvc.CreateProject(c.Request.Context(), create)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": project})
}

func (s *Server) ListProjects(c *gin.Context) {
	projects, err := s.businessSvc.ListProjects(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": projects})
}

// ScanReceipt accepts the raw image bytes as the request body and runs
// them through the OCR pipeline.
func (s *Server) ScanReceipt(c *gin.Context) {
	image, err := io.ReadAll(io.LimitReader(c.Request.Body, maxReceiptBytes))
	if err != nil || len(image) == 0 {
		AbortWithError(c, newValidationError("image", "invalid_image", "missing or unreadable image"))
		return
	}

	receipt, err := s.businessSvc.ScanReceipt(c.Request.Context(), businessdomain.ScanReceiptRequest{
		Image: image,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.RecordReceiptScan(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"data": receipt})
}

func (s *Server) ListReceipts(c *gin.Context) {
	receipts, err := s.businessSvc.ListReceipts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": receipts})
}
