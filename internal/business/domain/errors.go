package domain

import "errors"

var (
	ErrBusinessNotFound = errors.New("business_not_found")
	ErrBusinessExists   = errors.New("business_already_exists")
	ErrClientNotFound   = errors.New("client_not_found")
	ErrProjectNotFound  = errors.New("project_not_found")
	ErrInvalidVATRate   = errors.New("invalid_vat_rate")
	ErrNotVATRegistered = errors.New("business_not_vat_registered")
)
