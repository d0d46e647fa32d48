package domain

import "errors"

var (
	ErrInvoiceNotFound   = errors.New("invoice_not_found")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrInvalidLineItems  = errors.New("invalid_line_items")
)
