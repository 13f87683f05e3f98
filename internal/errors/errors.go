// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrRenderFailed       = errors.New("page render failed")
	ErrDocumentParse      = errors.New("document could not be parsed")
	ErrNoQualifyingTable  = errors.New("no qualifying price table")
	ErrNoDataRows         = errors.New("no valid price data")
	ErrChangeUnavailable  = errors.New("change unavailable")
	ErrNotificationFailed = errors.New("notification failed")
	ErrNoFunds            = errors.New("no funds configured")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrTimeout            = errors.New("operation timed out")
)

// RenderError represents a failure of the page renderer.
type RenderError struct {
	URL    string
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render error [%s]: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("render error [%s]: %s", e.URL, e.Reason)
}

func (e *RenderError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRenderFailed}
	}
	return []error{ErrRenderFailed, e.Err}
}

// NewRenderError creates a new RenderError.
func NewRenderError(url, reason string, err error) *RenderError {
	return &RenderError{
		URL:    url,
		Reason: reason,
		Err:    err,
	}
}

// ParseError represents a document that could not be parsed as HTML.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrDocumentParse, e.Err}
}

// NewParseError creates a new ParseError.
func NewParseError(err error) *ParseError {
	return &ParseError{Err: err}
}

// ChangeReason names why a change could not be computed.
type ChangeReason string

const (
	ReasonMissingColumn   ChangeReason = "missing_column"
	ReasonLatestInvalid   ChangeReason = "latest_not_numeric"
	ReasonPreviousInvalid ChangeReason = "previous_not_numeric"
	ReasonPreviousZero    ChangeReason = "previous_zero"
)

// ChangeError reports that a change between two observations is unavailable.
type ChangeError struct {
	Reason ChangeReason
	Value  string
}

func (e *ChangeError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("change unavailable [%s]: %q", e.Reason, e.Value)
	}
	return fmt.Sprintf("change unavailable [%s]", e.Reason)
}

func (e *ChangeError) Unwrap() error {
	return ErrChangeUnavailable
}

// NewChangeError creates a new ChangeError.
func NewChangeError(reason ChangeReason, value string) *ChangeError {
	return &ChangeError{
		Reason: reason,
		Value:  value,
	}
}

// NotificationError represents a failed delivery on a notification channel.
type NotificationError struct {
	Channel string
	Status  int
	Err     error
}

func (e *NotificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notification error [%s]: %v", e.Channel, e.Err)
	}
	return fmt.Sprintf("notification error [%s]: status %d", e.Channel, e.Status)
}

func (e *NotificationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotificationFailed}
	}
	return []error{ErrNotificationFailed, e.Err}
}

// NewNotificationError creates a new NotificationError.
func NewNotificationError(channel string, status int, err error) *NotificationError {
	return &NotificationError{
		Channel: channel,
		Status:  status,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrConfigInvalid
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
