package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	invoicedomain "github.com/quidflow/quidflow/internal/invoice/domain"
)

type lineItemRequest struct {
	Description    string `json:"description"`
	Quantity       int64  `json:"quantity"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
}

type createInvoiceRequest struct {
	ClientID  string            `json:"client_id"`
	DueDate   *string           `json:"due_date"`
	LineItems []lineItemRequest `json:"line_items"`
}

type updateInvoiceStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil {
		AbortWithError(c, newValidationError("client_id", "invalid_client_id", "invalid client id"))
		return
	}

	create := invoicedomain.CreateInvoiceRequest{ClientID: clientID}
	if req.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			AbortWithError(c, newValidationError("due_date", "invalid_due_date", "invalid timestamp"))
			return
		}
		create.DueDate = &dueDate
	}
	for _, item := range req.LineItems {
		create.LineItems = append(create.LineItems, invoicedomain.LineItem{
			Description:    strings.TrimSpace(item.Description),
			Quantity:       item.Quantity,
			UnitPriceMinor: item.UnitPriceMinor,
		})
	}

	inv, err := s.invoiceSvc.Create(c.Request.Context(), create)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.RecordInvoiceIssued(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) ListInvoices(c *gin.Context) {
	invoices, err := s.invoiceSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	inv, err := s.invoiceSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) UpdateInvoiceStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	inv, err := s.invoiceSvc.UpdateStatus(c.Request.Context(), id, invoicedomain.UpdateStatusRequest{
		Status: invoicedomain.Status(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}
