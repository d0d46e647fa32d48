package domain

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction_not_found")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidKind         = errors.New("invalid_kind")
)
