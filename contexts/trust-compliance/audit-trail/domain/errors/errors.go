package errors

import "errors"

var (
	ErrInvalidAuditInput = errors.New("invalid audit input")
	ErrEntryNotFound     = errors.New("audit entry not found")
)
