package domain

import "errors"

var (
	ErrBudgetNotFound = errors.New("budget_not_found")
	ErrGoalNotFound   = errors.New("goal_not_found")
	ErrAlertNotFound  = errors.New("alert_not_found")
	ErrInvalidAmount  = errors.New("invalid_amount")
)
