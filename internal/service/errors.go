package service

import (
	"fmt"
	"strings"
)

// ValidationError reports required columns absent from an uploaded extract.
// It maps to HTTP 400: the caller must not persist anything.
type ValidationError struct {
	ColunasFaltando []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.ColunasFaltando, ", "))
}

// ParseError marks a file that could not be decoded or parsed as CSV even
// after the Latin-1 fallback. It maps to HTTP 400.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unreadable CSV file: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
