// Package errors provides standardized error handling for imglab.
// It defines the error kinds raised by selection, orchestration and the
// inference client, and helpers for consistent creation, wrapping and
// classification of those errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Selection error kinds
	NoFileSelected
	EmptyPayload
	FileNotFound
	FileAccessDenied
	// Orchestration error kinds
	Busy
	OperationFailed
	MalformedResponse
	TransportFailed
	// Config error kinds
	InvalidConfig
	ConfigNotFound
)

var kindNames = map[ErrorKind]string{
	Unknown:           "unknown",
	NoFileSelected:    "no file selected",
	EmptyPayload:      "empty payload",
	FileNotFound:      "file not found",
	FileAccessDenied:  "file access denied",
	Busy:              "busy",
	OperationFailed:   "operation failed",
	MalformedResponse: "malformed response",
	TransportFailed:   "transport failed",
	InvalidConfig:     "invalid configuration",
	ConfigNotFound:    "configuration not found",
}

// String returns a short name for the kind
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Common error constants for frequently occurring errors
var (
	ErrNoFileSelected = &ApplicationError{msg: "no file selected", kind: NoFileSelected}
	ErrBusy           = &ApplicationError{msg: "another request is in flight", kind: Busy}
	ErrEmptyPayload   = NewFileError("file has no content", "", EmptyPayload, nil)
	ErrInvalidConfig  = NewConfigError("invalid configuration", "", InvalidConfig, nil)
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// Is matches application errors by kind, so errors.Is(err, ErrBusy)
// holds for any Busy error.
func (e *ApplicationError) Is(target error) bool {
	t, ok := target.(kinded)
	if !ok {
		return false
	}
	return t.Kind() != Unknown && t.Kind() == e.kind
}

// FileError represents errors related to the selected file
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// OperationError represents a failed call to the inference service.
// It carries the operation name and, for OperationFailed, the HTTP status.
type OperationError struct {
	ApplicationError
	operation string
	status    int
	detail    string
}

// NewOperationError creates a new operation error
func NewOperationError(operation string, kind ErrorKind, err error) *OperationError {
	return &OperationError{
		ApplicationError: ApplicationError{
			msg:  operation + " " + kind.String(),
			err:  err,
			kind: kind,
		},
		operation: operation,
	}
}

// NewStatusError creates an OperationFailed error for a non-success
// response status. detail is the service supplied message, if any.
func NewStatusError(operation string, status int, detail string) *OperationError {
	e := NewOperationError(operation, OperationFailed, nil)
	e.status = status
	e.detail = detail
	return e
}

// Error returns the operation error message
func (e *OperationError) Error() string {
	msg := e.msg
	if e.status != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.status)
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

// Operation returns the name of the failed operation
func (e *OperationError) Operation() string {
	return e.operation
}

// Status returns the HTTP status of an OperationFailed error, or 0
func (e *OperationError) Status() int {
	return e.status
}

// Detail returns the message reported by the service, if any
func (e *OperationError) Detail() string {
	return e.detail
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

type kinded interface {
	Kind() ErrorKind
}

// KindOf returns the kind of the first classified error in err's chain
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(kinded); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// IsNoFileSelected checks if the error reports a missing selection
func IsNoFileSelected(err error) bool {
	return KindOf(err) == NoFileSelected
}

// IsBusy checks if the error reports a rejected re-entrant request
func IsBusy(err error) bool {
	return KindOf(err) == Busy
}

// IsOperationFailed checks if the error is a non-success service response
func IsOperationFailed(err error) bool {
	return KindOf(err) == OperationFailed
}

// IsMalformedResponse checks if the error is an unparsable service response
func IsMalformedResponse(err error) bool {
	return KindOf(err) == MalformedResponse
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	return KindOf(err) == FileNotFound
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	return KindOf(err) == InvalidConfig
}
