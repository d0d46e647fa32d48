package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	transactiondomain "github.com/quidflow/quidflow/internal/transaction/domain"
)

type createTransactionRequest struct {
	BusinessID  string  `json:"business_id"`
	OccurredAt  *string `json:"occurred_at"`
	Description string  `json:"description"`
	AmountMinor int64   `json:"amount_minor"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	Kind        string  `json:"kind"`
}

func (s *Server) CreateTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	create := transactiondomain.CreateTransactionRequest{
		Description: strings.TrimSpace(req.Description),
		AmountMinor: req.AmountMinor,
		Currency:    strings.TrimSpace(req.Currency),
		Category:    strings.TrimSpace(req.Category),
		Kind:        transactiondomain.Kind(strings.TrimSpace(req.Kind)),
	}
	if req.BusinessID != "" {
		id, err := snowflake.ParseString(req.BusinessID)
		if err != nil {
			AbortWithError(c, newValidationError("business_id", "invalid_business_id", "invalid business id"))
			return
		}
		create.BusinessID = &id
	}
	if req.OccurredAt != nil {
		occurredAt, err := time.Parse(time.RFC3339, *req.OccurredAt)
		if err != nil {
			AbortWithError(c, newValidationError("occurred_at", "invalid_occurred_at", "invalid timestamp"))
			return
		}
		create.OccurredAt = occurredAt
	}

	txn, err := s.transactionSvc.Create(c.Request.Context(), create)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": txn})
}

func (s *Server) ListTransactions(c *gin.Context) {
	from, to, err := parsePeriodQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	txns, err := s.transactionSvc.List(c.Request.Context(), transactiondomain.ListTransactionsRequest{
		From: from,
		To:   to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": txns})
}

func (s *Server) DeleteTransaction(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.transactionSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) GetSpendingByCategory(c *gin.Context) {
	from, to, err := parsePeriodQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	totals, err := s.transactionSvc.SpendingByCategory(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": totals})
}

func (s *Server) GetTotals(c *gin.Context) {
	from, to, err := parsePeriodQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	income, expense, err := s.transactionSvc.Totals(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"income_minor":  income,
		"expense_minor": expense,
		"net_minor":     income - expense,
	}})
}

func parseIDParam(c *gin.Context) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return 0, newValidationError("id", "invalid_id", "invalid id")
	}
	return id, nil
}

// parsePeriodQuery reads optional RFC3339 from/to query bounds. Zero
// values mean "current month" downstream.
func parsePeriodQuery(c *gin.Context) (time.Time, time.Time, error) {
	var from, to time.Time

	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, newValidationError("from", "invalid_from", "invalid timestamp")
		}
		from = parsed
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, newValidationError("to", "invalid_to", "invalid timestamp")
		}
		to = parsed
	}
	return from, to, nil
}
