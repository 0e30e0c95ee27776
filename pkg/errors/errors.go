// Package errors provides custom error types for the sideko CLI.
// These errors enable programmatic error checking, carry optional debug
// detail that is only shown in verbose mode, and keep user-facing
// messages free of secrets.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is, As and Join are re-exported so callers only import one errors package.
var (
	Is   = errors.Is
	As   = errors.As
	Join = errors.Join
)

// Common sentinel errors for the sideko CLI
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthenticated indicates the server rejected the request credentials
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrUpdateRequired indicates the server requires a newer CLI
	ErrUpdateRequired = errors.New("cli update required")

	// ErrDirtyTree indicates a git working tree with uncommitted changes
	ErrDirtyTree = errors.New("git working tree not clean")

	// ErrNotAnSDK indicates a directory without valid sdk metadata
	ErrNotAnSDK = errors.New("not a managed sdk repository")

	// ErrPatchRejected indicates git refused to apply an update patch
	ErrPatchRejected = errors.New("patch rejected")

	// ErrDeploymentCancelled indicates a deployment ended in the cancelled state
	ErrDeploymentCancelled = errors.New("deployment cancelled")

	// ErrDeploymentFailed indicates a deployment ended in the error state
	ErrDeploymentFailed = errors.New("deployment failed")

	// ErrAbandoned indicates polling stopped by the caller before a terminal state
	ErrAbandoned = errors.New("polling abandoned")

	// ErrKeychainNoEntry indicates a missing keychain item
	ErrKeychainNoEntry = errors.New("keychain entry not found")
)

// Debugger is implemented by errors that carry detail meant for verbose output only.
type Debugger interface {
	DebugInfo() string
}

// DebugInfo collects the debug detail of every error in the chain.
func DebugInfo(err error) string {
	var parts []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		if d, ok := e.(Debugger); ok {
			if info := d.DebugInfo(); info != "" {
				parts = append(parts, info)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// GeneralError is a human-phrased failure with optional debug detail.
type GeneralError struct {
	Message string
	Debug   string
	Err     error
}

// Error implements the error interface
func (e *GeneralError) Error() string {
	return e.Message
}

// Unwrap implements errors.Unwrap
func (e *GeneralError) Unwrap() error {
	return e.Err
}

// DebugInfo implements Debugger
func (e *GeneralError) DebugInfo() string {
	return e.Debug
}

// NewGeneralError creates a new GeneralError
func NewGeneralError(message string) *GeneralError {
	return &GeneralError{Message: message}
}

// Generalf creates a GeneralError with a formatted message
func Generalf(format string, args ...any) *GeneralError {
	return &GeneralError{Message: fmt.Sprintf(format, args...)}
}

// WithDebug creates a GeneralError carrying debug detail
func WithDebug(message, debug string) *GeneralError {
	return &GeneralError{Message: message, Debug: debug}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents a non-2xx response from the Sideko API
type APIError struct {
	StatusCode int
	Method     string
	URL        string
	Headers    http.Header
	Body       []byte
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := fmt.Sprintf("api request failed: %s %s returned %d", e.Method, e.URL, e.StatusCode)
	if desc := e.Description(); desc != "" {
		msg += ": " + desc
	}
	return msg
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// JSON decodes the response body into target
func (e *APIError) JSON(target any) error {
	return json.Unmarshal(e.Body, target)
}

// Description returns the `description` field of a JSON error body, if any.
func (e *APIError) Description() string {
	var body struct {
		Description string `json:"description"`
	}
	if err := e.JSON(&body); err != nil {
		return ""
	}
	return body.Description
}

// DebugInfo implements Debugger
func (e *APIError) DebugInfo() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s -> %d", e.Method, e.URL, e.StatusCode)
	if ct := e.Headers.Get("Content-Type"); ct != "" {
		fmt.Fprintf(&b, " (%s)", ct)
	}
	if len(e.Body) > 0 {
		fmt.Fprintf(&b, "\nresponse body: %s", e.Body)
	}
	return b.String()
}

// NewAPIError creates a new APIError
func NewAPIError(method, url string, statusCode int, headers http.Header, body []byte) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Method:     method,
		URL:        url,
		Headers:    headers,
		Body:       body,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// KeychainError represents a failure of the OS keychain
type KeychainError struct {
	Operation string // "get", "set", "delete"
	Account   string
	Err       error
}

// Error implements the error interface
func (e *KeychainError) Error() string {
	return fmt.Sprintf("keychain %s failed for %s: %v", e.Operation, e.Account, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *KeychainError) Unwrap() error {
	return e.Err
}

// PromptError represents aborted or malformed interactive input
type PromptError struct {
	Prompt string
	Err    error
}

// Error implements the error interface
func (e *PromptError) Error() string {
	if e.Prompt != "" {
		return fmt.Sprintf("prompt %q failed: %v", e.Prompt, e.Err)
	}
	return fmt.Sprintf("prompt failed: %v", e.Err)
}

// Unwrap implements errors.Unwrap
func (e *PromptError) Unwrap() error {
	return e.Err
}

// ClipboardError represents a platform clipboard failure
type ClipboardError struct {
	Err error
}

// Error implements the error interface
func (e *ClipboardError) Error() string {
	return fmt.Sprintf("clipboard unavailable: %v", e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ClipboardError) Unwrap() error {
	return e.Err
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during filesystem or subprocess I/O
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// TimeoutError represents an operation that exceeded its deadline
type TimeoutError struct {
	Operation string
	Message   string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("operation %s timed out", e.Operation)
}

// Is implements errors.Is support
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(operation, message string) *TimeoutError {
	return &TimeoutError{
		Operation: operation,
		Message:   message,
	}
}

// ProcessError represents an error from an external process such as git
type ProcessError struct {
	Operation string // What operation was being performed
	Command   string // The command that was executed
	Stdout    string
	Stderr    string
	ExitCode  int
	Err       error
}

// Error implements the error interface
func (e *ProcessError) Error() string {
	return fmt.Sprintf("%s failed (command: %s): %v", e.Operation, e.Command, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// DebugInfo implements Debugger
func (e *ProcessError) DebugInfo() string {
	return fmt.Sprintf("exit code: %d\nstdout: %s\nstderr: %s", e.ExitCode, e.Stdout, e.Stderr)
}

// NewProcessError creates a new ProcessError
func NewProcessError(operation, command, stdout, stderr string, exitCode int, err error) *ProcessError {
	return &ProcessError{
		Operation: operation,
		Command:   command,
		Stdout:    stdout,
		Stderr:    stderr,
		ExitCode:  exitCode,
		Err:       err,
	}
}

// DeploymentError reports a deployment that did not complete
type DeploymentError struct {
	Kind       error // ErrDeploymentCancelled, ErrDeploymentFailed or ErrAbandoned
	Status     string
	Deployment string // JSON rendering of the last observed deployment
}

// Error implements the error interface
func (e *DeploymentError) Error() string {
	if e.Kind == ErrAbandoned {
		return fmt.Sprintf("deployment polling abandoned in `%s` status", e.Status)
	}
	return fmt.Sprintf("deployment polling terminated in `%s` status", e.Status)
}

// Is implements errors.Is support
func (e *DeploymentError) Is(target error) bool {
	return target == e.Kind
}

// DebugInfo implements Debugger
func (e *DeploymentError) DebugInfo() string {
	if e.Deployment == "" {
		return ""
	}
	return "deployment: " + e.Deployment
}

// PatchError reports a failure of the sdk update pipeline
type PatchError struct {
	Kind    error // ErrDirtyTree, ErrNotAnSDK or ErrPatchRejected
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *PatchError) Error() string {
	return e.Message
}

// Unwrap implements errors.Unwrap
func (e *PatchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *PatchError) Is(target error) bool {
	return target == e.Kind
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnauthenticated checks if the server rejected the credentials
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapPrompt wraps an error as a PromptError
func WrapPrompt(prompt string, err error) error {
	if err == nil {
		return nil
	}
	return &PromptError{Prompt: prompt, Err: err}
}
