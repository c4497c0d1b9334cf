package company

import "errors"

// Errors for company store operations.
var (
	ErrNotFound      = errors.New("company not found")
	ErrConflict      = errors.New("site_id already exists")
	ErrNotConfigured = errors.New("assistant not configured")
)
