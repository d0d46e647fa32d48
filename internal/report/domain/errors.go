package domain

import "errors"

var (
	ErrReportNotFound = errors.New("report_not_found")
	ErrInvalidKind    = errors.New("invalid_report_kind")
	ErrInvalidPeriod  = errors.New("invalid_report_period")
)
