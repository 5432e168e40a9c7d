// Package errors defines the error types of ansync. Callers branch on
// them with the Is* helpers: a rate limited or unavailable LCD is worth a
// retry, a validation error in an inventory is not.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Standard library helpers, so callers need only one errors import.
var (
	New  = errors.New
	Join = errors.Join
	Is   = errors.Is
	As   = errors.As
)

// Sentinel errors matched by the typed errors below.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnavailable   = errors.New("endpoint unavailable")
	ErrRateLimited   = errors.New("rate limited")
	ErrTimeout       = errors.New("operation timed out")
	ErrCanceled      = errors.New("operation canceled")

	// ErrReadOnly is returned when writing to a registry that can only be read
	ErrReadOnly = errors.New("read only")
)

// NotFoundError reports a missing network, inventory or registry entry.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError reports bad input: an invalid inventory entry, option
// or flag.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is matches ErrInvalidInput.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError is a failed request to a chain endpoint. StatusCode is zero when
// no response was received.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request to %s failed: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("request to %s failed with status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is maps the status code to ErrRateLimited, ErrUnavailable or ErrNotFound.
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return target == ErrRateLimited
	case e.StatusCode >= http.StatusInternalServerError:
		return target == ErrUnavailable
	case e.StatusCode == http.StatusNotFound:
		return target == ErrNotFound
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(endpoint string, statusCode int, message string) *APIError {
	return &APIError{Endpoint: endpoint, StatusCode: statusCode, Message: message}
}

// ConfigError reports a missing or inconsistent setting.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "config: " + e.Message
	}
	return fmt.Sprintf("config %s: %s", e.Component, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Is matches ErrInvalidInput.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalidInput }

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// SyncError reports a failed execute message. Batches before Batch were
// accepted and stay applied; Applied counts them.
type SyncError struct {
	Chain   string
	Section string
	Batch   int
	Applied int
	Err     error
}

func (e *SyncError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("sync error for chain %s: %v", e.Chain, e.Err)
	}
	return fmt.Sprintf("sync error for chain %s (section %s, batch %d, %d applied): %v",
		e.Chain, e.Section, e.Batch, e.Applied, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// NewSyncError creates a new SyncError
func NewSyncError(chain, section string, batch, applied int, err error) *SyncError {
	return &SyncError{Chain: chain, Section: section, Batch: batch, Applied: applied, Err: err}
}

// ParseError reports a malformed inventory, state file or response.
type ParseError struct {
	Format string // json or yaml
	File   string
	Err    error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s parse error: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("%s parse error in %s: %v", e.Format, e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError reports a failed file or stream operation.
type IOError struct {
	Operation string
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ResourceError reports a failed operation on a named resource, such as
// a registry query.
type ResourceError struct {
	Operation string
	Resource  string
	ID        string
	Err       error
}

func (e *ResourceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s %s: %v", e.Operation, e.Resource, e.Err)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Operation, e.Resource, e.ID, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrAlreadyExists) }

// IsValidationError checks for validation and configuration errors
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

// IsUnavailable checks if an error indicates endpoint unavailability
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

// IsReadOnly checks if an error was caused by writing to a read-only registry
func IsReadOnly(err error) bool { return errors.Is(err, ErrReadOnly) }

// IsTimeout also matches an expired context deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsCanceled also matches a canceled context.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}

// The Wrap helpers return nil for a nil error.

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Err: err}
}

// WrapAPI wraps a transport error as an APIError
func WrapAPI(endpoint string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{Endpoint: endpoint, StatusCode: statusCode, Message: err.Error(), Err: err}
}
