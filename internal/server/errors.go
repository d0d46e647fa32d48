package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	budgetdomain "github.com/quidflow/quidflow/internal/budget/domain"
	businessdomain "github.com/quidflow/quidflow/internal/business/domain"
	entitlementdomain "github.com/quidflow/quidflow/internal/entitlement/domain"
	insightdomain "github.com/quidflow/quidflow/internal/insight/domain"
	invoicedomain "github.com/quidflow/quidflow/internal/invoice/domain"
	"github.com/quidflow/quidflow/internal/observability"
	reportdomain "github.com/quidflow/quidflow/internal/report/domain"
	subscriptiondomain "github.com/quidflow/quidflow/internal/subscription/domain"
	"github.com/quidflow/quidflow/internal/tier"
	transactiondomain "github.com/quidflow/quidflow/internal/transaction/domain"
	"github.com/quidflow/quidflow/internal/vat"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type             string            `json:"type"`
	Message          string            `json:"message"`
	SuggestedUpgrade tier.ID           `json:"suggestedUpgrade,omitempty"`
	Errors           []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware renders the last unwritten error as JSON.
// Upgrade-required denials are also counted per route.
func ErrorHandlingMiddleware(metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		if errors.Is(lastErr.Err, entitlementdomain.ErrUpgradeRequired) {
			metrics.RecordAccessDenial(c.Request.Context(), c.FullPath())
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case errors.Is(err, entitlementdomain.ErrUpgradeRequired):
		payload := errorPayload{
			Type:    "upgrade_required",
			Message: "your current plan does not include this",
		}
		var denial *entitlementdomain.UpgradeRequiredError
		if errors.As(err, &denial) {
			payload.SuggestedUpgrade = denial.SuggestedUpgrade
		}
		return http.StatusPaymentRequired, payload
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, subscriptiondomain.ErrInvalidTier),
		errors.Is(err, tier.ErrUnknownFeature),
		errors.Is(err, tier.ErrUnknownLimit),
		errors.Is(err, tier.ErrNotTrialable),
		errors.Is(err, transactiondomain.ErrInvalidAmount),
		errors.Is(err, transactiondomain.ErrInvalidKind),
		errors.Is(err, budgetdomain.ErrInvalidAmount),
		errors.Is(err, businessdomain.ErrInvalidVATRate),
		errors.Is(err, businessdomain.ErrNotVATRegistered),
		errors.Is(err, vat.ErrInvalidRate),
		errors.Is(err, invoicedomain.ErrInvalidLineItems),
		errors.Is(err, reportdomain.ErrInvalidKind),
		errors.Is(err, reportdomain.ErrInvalidPeriod),
		errors.Is(err, insightdomain.ErrEmptyQuestion),
		errors.Is(err, insightdomain.ErrInvalidHorizon):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, subscriptiondomain.ErrTrialAlreadyUsed),
		errors.Is(err, businessdomain.ErrBusinessExists),
		errors.Is(err, invoicedomain.ErrInvalidTransition):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, tier.ErrUnknownTier),
		errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound),
		errors.Is(err, transactiondomain.ErrTransactionNotFound),
		errors.Is(err, budgetdomain.ErrBudgetNotFound),
		errors.Is(err, budgetdomain.ErrGoalNotFound),
		errors.Is(err, budgetdomain.ErrAlertNotFound),
		errors.Is(err, businessdomain.ErrBusinessNotFound),
		errors.Is(err, businessdomain.ErrClientNotFound),
		errors.Is(err, businessdomain.ErrProjectNotFound),
		errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, reportdomain.ErrReportNotFound),
		errors.Is(err, insightdomain.ErrInsightNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}
