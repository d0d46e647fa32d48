package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateKeyErr reports whether err is a unique-constraint violation,
// across the dialects Dialect supports.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	message := err.Error()
	switch {
	// PostgreSQL 23505
	case strings.Contains(message, "duplicate key value violates unique constraint"):
		return true
	// MySQL 1062
	case strings.Contains(message, "Error 1062"):
		return true
	// SQLite 2067
	case strings.Contains(message, "UNIQUE constraint failed"):
		return true
	default:
		return false
	}
}
