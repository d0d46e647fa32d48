package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	budgetdomain "github.com/quidflow/quidflow/internal/budget/domain"
)

type createBudgetRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
}

type createGoalRequest struct {
	Name        string  `json:"name"`
	TargetMinor int64   `json:"target_minor"`
	Deadline    *string `json:"deadline"`
}

type contributeRequest struct {
	AmountMinor int64 `json:"amount_minor"`
}

func (s *Server) CreateBudget(c *gin.Context) {
	var req createBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	budget, err := s.budgetSvc.CreateBudget(c.Request.Context(), budgetdomain.CreateBudgetRequest{
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		AmountMinor: req.AmountMinor,
		Currency:    strings.TrimSpace(req.Currency),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": budget})
}

func (s *Server) ListBudgets(c *gin.Context) {
	budgets, err := s.budgetSvc.ListBudgets(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": budgets})
}

func (s *Server) DeleteBudget(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.budgetSvc.DeleteBudget(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) GetBudgetSummary(c *gin.Context) {
	summary, err := s.budgetSvc.GetSummary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (s *Server) ListBudgetAlerts(c *gin.Context) {
	alerts, err := s.budgetSvc.ListAlerts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": alerts})
}

func (s *Server) MarkBudgetAlertRead(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.budgetSvc.MarkAlertRead(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"read": true}})
}

func (s *Server) DismissBudgetAlert(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.budgetSvc.DismissAlert(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"dismissed": true}})
}

func (s *Server) CreateGoal(c *gin.Context) {
	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	create := budgetdomain.CreateGoalRequest{
		Name:        strings.TrimSpace(req.Name),
		TargetMinor: req.TargetMinor,
	}
	if req.Deadline != nil {
		deadline, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			AbortWithError(c, newValidationError("deadline", "invalid_deadline", "invalid timestamp"))
			return
		}
		create.Deadline = &deadline
	}

	goal, err := s.budgetSvc.CreateGoal(c.Request.Context(), create)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": goal})
}

func (s *Server) ListGoals(c *gin.Context) {
	goals, err := s.budgetSvc.ListGoals(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": goals})
}

func (s *Server) ContributeToGoal(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req contributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	goal, err := s.budgetSvc.Contribute(c.Request.Context(), id, budgetdomain.ContributeRequest{
		AmountMinor: req.AmountMinor,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": goal})
}

func (s *Server) DeleteGoal(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.budgetSvc.DeleteGoal(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
