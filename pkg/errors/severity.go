// Package errors provides severity-aware error types.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Severity indicates error impact level.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// CheckError is a structured error with context.
type CheckError struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path,omitempty"`
	Err      error    `json:"-"`
}

func (e *CheckError) Error() string {
	msg := fmt.Sprintf("[%s] %s: %s", e.Severity, e.Code, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (path: %s)", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	ErrCodeDescriptorNotFound  = "DESCRIPTOR_NOT_FOUND"
	ErrCodeDescriptorMalformed = "DESCRIPTOR_MALFORMED"
	ErrCodeDescriptorInvalid   = "DESCRIPTOR_INVALID"
	ErrCodeInvalidConfig       = "INVALID_CONFIG"
	ErrCodeProviderSetup       = "PROVIDER_SETUP"
)

// NewDescriptorNotFoundError creates an error for a descriptor that cannot be read.
func NewDescriptorNotFoundError(path string, err error) *CheckError {
	return &CheckError{
		Code:     ErrCodeDescriptorNotFound,
		Message:  "deployment descriptor cannot be read",
		Severity: SeverityFatal,
		Path:     path,
		Err:      err,
	}
}

// NewDescriptorMalformedError creates an error for a descriptor that is not valid YAML.
func NewDescriptorMalformedError(path string, err error) *CheckError {
	return &CheckError{
		Code:     ErrCodeDescriptorMalformed,
		Message:  "deployment descriptor is not valid YAML",
		Severity: SeverityFatal,
		Path:     path,
		Err:      err,
	}
}

// NewDescriptorInvalidError creates an error for a descriptor with unusable records.
func NewDescriptorInvalidError(path, reason string) *CheckError {
	return &CheckError{
		Code:     ErrCodeDescriptorInvalid,
		Message:  reason,
		Severity: SeverityFatal,
		Path:     path,
	}
}

// NewInvalidConfigError creates an error for rejected runtime configuration.
func NewInvalidConfigError(reason string, err error) *CheckError {
	return &CheckError{
		Code:     ErrCodeInvalidConfig,
		Message:  reason,
		Severity: SeverityFatal,
		Err:      err,
	}
}

// NewProviderSetupError creates an error for a cloud provider session that cannot be built.
func NewProviderSetupError(err error) *CheckError {
	return &CheckError{
		Code:     ErrCodeProviderSetup,
		Message:  "cannot initialise cloud provider configuration",
		Severity: SeverityFatal,
		Err:      err,
	}
}

// IsInputError reports whether err is a descriptor loading failure.
func IsInputError(err error) bool {
	var ce *CheckError
	if !stderrors.As(err, &ce) {
		return false
	}
	switch ce.Code {
	case ErrCodeDescriptorNotFound, ErrCodeDescriptorMalformed, ErrCodeDescriptorInvalid:
		return true
	}
	return false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	var ce *CheckError
	return stderrors.As(err, &ce) && ce.Code == code
}
