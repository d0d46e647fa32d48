package domain

import "errors"

var (
	ErrInsightNotFound = errors.New("insight_not_found")
	ErrEmptyQuestion   = errors.New("empty_question")
	ErrInvalidHorizon  = errors.New("invalid_forecast_horizon")
)
