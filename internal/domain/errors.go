package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrRateLimited   = errors.New("rate limited")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotConfigured = errors.New("integration not configured")
	ErrInvalidInput  = errors.New("invalid input")
)

// ValidationError reports every problem found in an inbound request. Missing
// lists required fields that were absent; Problems holds format or range
// violations, each already phrased for the caller.
type ValidationError struct {
	Missing  []string
	Problems []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	parts = append(parts, e.Problems...)
	if len(parts) == 0 {
		return ErrInvalidInput.Error()
	}
	return strings.Join(parts, "; ")
}

// Is lets callers match any ValidationError with errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Invalid builds a ValidationError carrying a single problem.
func Invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Problems: []string{fmt.Sprintf(format, args...)}}
}

// NotConfiguredError is returned when an integration's credential is absent.
// Setting names the configuration key or environment variable to set.
type NotConfiguredError struct {
	Integration string
	Setting     string
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("%s is not configured: set %s", e.Integration, e.Setting)
}

func (e *NotConfiguredError) Is(target error) bool {
	return target == ErrNotConfigured
}

// UpstreamError is a non-success answer from an external collaborator.
// Status is the upstream HTTP status; Message is the upstream's own
// description when one could be extracted from the body.
type UpstreamError struct {
	Service string
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: upstream HTTP %d", e.Service, e.Status)
	}
	return fmt.Sprintf("%s: upstream HTTP %d: %s", e.Service, e.Status, e.Message)
}

// Is maps well-known upstream statuses onto the package sentinels.
func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == 404
	case ErrUnauthorized:
		return e.Status == 401 || e.Status == 403
	case ErrRateLimited:
		return e.Status == 429
	}
	return false
}
