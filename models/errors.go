package models

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("authentication required")
	ErrForbidden             = errors.New("admin privileges required")
	ErrConflict              = errors.New("concurrent modification")
	ErrEnrichmentUnavailable = errors.New("enrichment unavailable")

	ErrInvalidVoter     = errors.New("voter identity required")
	ErrUnknownIssue     = errors.New("unknown issue")
	ErrInvalidDirection = errors.New("invalid vote direction")

	ErrEmailTaken = errors.New("user with this email already exists")
)

// ValidationError carries field-level messages for rejected input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
