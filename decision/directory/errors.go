package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// ErrorClass groups provider failures by what the caller can conclude from them.
type ErrorClass string

const (
	ClassNotFound       ErrorClass = "not_found"
	ClassAccessDenied   ErrorClass = "access_denied"
	ClassThrottled      ErrorClass = "throttled"
	ClassInvalidRequest ErrorClass = "invalid_request"
	ClassTimeout        ErrorClass = "timeout"
	ClassProvider       ErrorClass = "provider"

	// ClassInvalidRecord marks a descriptor record that was never sent to the provider.
	ClassInvalidRecord ErrorClass = "invalid_record"
)

// Error is a failed provider call.
type Error struct {
	Kind    Kind       `json:"kind"`
	Op      string     `json:"op"`
	Class   ErrorClass `json:"class"`
	Code    string     `json:"code,omitempty"`
	Message string     `json:"message"`
	Err     error      `json:"-"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %s: %s", e.Kind, e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether the provider confirmed the resource is absent.
func IsNotFound(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Class == ClassNotFound
}

// ClassOf returns the class of a provider error, or ClassProvider for
// anything that did not come through this package.
func ClassOf(err error) ErrorClass {
	var de *Error
	if errors.As(err, &de) {
		return de.Class
	}
	return ClassProvider
}

// wrapError classifies err and tags it with the kind and operation.
func wrapError(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}

	de := &Error{Kind: kind, Op: op, Class: ClassProvider, Message: err.Error(), Err: err}

	if errors.Is(err, context.DeadlineExceeded) {
		de.Class = ClassTimeout
		de.Message = "provider call timed out"
		return de
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		de.Code = apiErr.ErrorCode()
		de.Message = apiErr.ErrorMessage()
		de.Class = classify(de.Code)
	}
	return de
}

func classify(code string) ErrorClass {
	switch code {
	case "NotFoundException", "ResourceNotFoundException", "DBClusterNotFoundFault",
		"NoSuchEntity", "ClusterNotFoundException", "LoadBalancerNotFound",
		"QueueDoesNotExist", "AWS.SimpleQueueService.NonExistentQueue",
		"InvalidInstanceID.NotFound", "DoesNotExist":
		return ClassNotFound
	}
	switch {
	case strings.Contains(code, "AccessDenied"), strings.Contains(code, "UnauthorizedOperation"),
		strings.Contains(code, "Unauthorized"), code == "ExpiredToken", code == "InvalidClientTokenId",
		code == "UnrecognizedClientException", code == "AuthFailure":
		return ClassAccessDenied
	case strings.Contains(code, "Throttl"), code == "RequestLimitExceeded", code == "TooManyRequestsException",
		code == "SlowDown":
		return ClassThrottled
	case strings.HasPrefix(code, "Invalid"), code == "ValidationError", code == "ValidationException",
		code == "MissingParameter", code == "MalformedQueryString":
		return ClassInvalidRequest
	}
	return ClassProvider
}
