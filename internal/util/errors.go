package util

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrPermissionDenied   = errors.New("permission denied")
)

// ValidationError is a field-scoped 400. Range violations (mark exceeding its
// max) use this type with the offending field named.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError is a 404 for a missing referenced entity.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// ConflictError reports duplicate or contradictory keys (400).
type ConflictError struct {
	Message string
	Keys    []string
}

func (e *ConflictError) Error() string {
	if len(e.Keys) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Keys, ", ")
}

// RowError is one row-level failure inside a bulk payload.
type RowError struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// BulkValidationError carries every row-level failure of a bulk upload so the
// caller can fix the whole sheet in one pass. A bulk operation returning this
// has written nothing.
type BulkValidationError struct {
	Rows []RowError
}

func (e *BulkValidationError) Error() string {
	return fmt.Sprintf("%d row(s) failed validation", len(e.Rows))
}

func (e *BulkValidationError) Add(row int, field, format string, args ...interface{}) {
	e.Rows = append(e.Rows, RowError{Row: row, Field: field, Reason: fmt.Sprintf(format, args...)})
}

func (e *BulkValidationError) HasErrors() bool {
	return len(e.Rows) > 0
}
