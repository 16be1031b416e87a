// Package resolver provides the component resolution engine.
// It turns a declared component into a verdict about the live resource it names.
package resolver

import (
	"fmt"

	"infra-check/decision/directory"
)

// Status is the outcome class of a resolution
type Status string

const (
	StatusFound          Status = "found"
	StatusNotFound       Status = "not_found"
	StatusError          Status = "error"
	StatusUnsupported    Status = "unsupported"
	StatusNotImplemented Status = "not_implemented"
)

// Verdict is the outcome of resolving one descriptor against live infrastructure.
// Identifier is set if and only if Exists is true.
type Verdict struct {
	Status     Status            `json:"status"`
	Exists     bool              `json:"exists"`
	Identifier string            `json:"identifier,omitempty"`
	Detail     string            `json:"detail,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"` // state, counts, ...

	// Error fields are only set for StatusError
	Error      string               `json:"error,omitempty"`
	ErrorClass directory.ErrorClass `json:"error_class,omitempty"`
}

// Found builds a verdict for a resolved resource. An empty identifier is
// refused and reported as an error so the invariant holds for every strategy.
func Found(identifier, detail string, fields map[string]string) Verdict {
	if identifier == "" {
		return Verdict{
			Status:     StatusError,
			Detail:     detail,
			Error:      "resource matched but the provider returned no identifier",
			ErrorClass: directory.ClassProvider,
		}
	}
	return Verdict{
		Status:     StatusFound,
		Exists:     true,
		Identifier: identifier,
		Detail:     detail,
		Fields:     fields,
	}
}

// NotFound builds a verdict for a resource the provider confirmed is absent.
func NotFound(detail string) Verdict {
	return Verdict{Status: StatusNotFound, Detail: detail}
}

// Failed builds a verdict for a provider call that failed for a reason
// unrelated to existence.
func Failed(err error) Verdict {
	return Verdict{
		Status:     StatusError,
		Error:      err.Error(),
		ErrorClass: directory.ClassOf(err),
	}
}

// InvalidRecord builds the verdict for a descriptor record that cannot be
// checked because it lacks a type or name.
func InvalidRecord(problem string) Verdict {
	return Verdict{
		Status:     StatusError,
		Error:      "invalid descriptor record: " + problem,
		ErrorClass: directory.ClassInvalidRecord,
	}
}

// Unsupported builds the verdict for a type with no registered strategy.
func Unsupported(componentType string) Verdict {
	return Verdict{
		Status: StatusUnsupported,
		Detail: fmt.Sprintf("no check registered for type %q", componentType),
	}
}

// NotImplemented builds the verdict for an informational-only type.
func NotImplemented(reason string) Verdict {
	return Verdict{Status: StatusNotImplemented, Detail: reason}
}

// IsFound reports whether the resource was resolved
func (v Verdict) IsFound() bool {
	return v.Status == StatusFound
}

// Valid reports whether the verdict satisfies the existence invariants.
func (v Verdict) Valid() bool {
	if v.Exists != (v.Status == StatusFound) {
		return false
	}
	return v.Exists == (v.Identifier != "")
}

// Summary flattens the verdict into one human readable string.
func (v Verdict) Summary() string {
	switch v.Status {
	case StatusFound:
		if v.Detail != "" {
			return fmt.Sprintf("found %s (%s)", v.Identifier, v.Detail)
		}
		return "found " + v.Identifier
	case StatusError:
		return "error: " + v.Error
	default:
		return v.Detail
	}
}
