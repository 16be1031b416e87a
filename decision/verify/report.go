// Package verify builds verification reports from descriptors.
package verify

import (
	"math"
	"time"

	"infra-check/decision/descriptor"
	"infra-check/decision/directory"
	"infra-check/decision/resolver"
)

// ComponentResult is the verdict for one top-level component
type ComponentResult struct {
	Seq       int                  `json:"seq"`
	Component descriptor.Component `json:"component"`
	Verdict   resolver.Verdict     `json:"verdict"`
}

// ConnectionResult is the verdict for one connectsTo entry. Parent is the
// name of the component that declared it.
type ConnectionResult struct {
	Seq       int                  `json:"seq"`
	Parent    string               `json:"parent"`
	Depth     int                  `json:"depth"`
	Component descriptor.Component `json:"component"`
	Verdict   resolver.Verdict     `json:"verdict"`
}

// Summary holds report totals
type Summary struct {
	Components       int `json:"components"`
	ComponentsFound  int `json:"components_found"`
	Connections      int `json:"connections"`
	ConnectionsFound int `json:"connections_found"`
	Unsupported      int `json:"unsupported"`
	Errors           int `json:"errors"`
}

// Total returns the number of checked records
func (s Summary) Total() int {
	return s.Components + s.Connections
}

// Found returns the number of records that resolved
func (s Summary) Found() int {
	return s.ComponentsFound + s.ConnectionsFound
}

// Report is the result of one verification run. It is only mutated while
// the Builder constructs it.
type Report struct {
	RunID       string             `json:"run_id"`
	Descriptor  string             `json:"descriptor,omitempty"`
	Region      string             `json:"region,omitempty"`
	Account     string             `json:"account,omitempty"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
	Components  []ComponentResult  `json:"components"`
	Connections []ConnectionResult `json:"connections"`
	Summary     Summary            `json:"summary"`
}

// AllFound reports whether every component and connection resolved
func (r *Report) AllFound() bool {
	return r.Summary.Found() == r.Summary.Total()
}

// ConnectionsUnder returns every connection nested below the component with
// the given sequence number, depth first.
func (r *Report) ConnectionsUnder(seq int) []ConnectionResult {
	next := math.MaxInt
	for _, c := range r.Components {
		if c.Seq > seq {
			next = c.Seq
			break
		}
	}

	out := make([]ConnectionResult, 0)
	for _, conn := range r.Connections {
		if conn.Seq > seq && conn.Seq < next {
			out = append(out, conn)
		}
	}
	return out
}

func (r *Report) tally(v resolver.Verdict, connection bool) {
	if connection {
		r.Summary.Connections++
	} else {
		r.Summary.Components++
	}
	switch {
	case v.IsFound():
		if connection {
			r.Summary.ConnectionsFound++
		} else {
			r.Summary.ComponentsFound++
		}
	case v.Status == resolver.StatusUnsupported:
		r.Summary.Unsupported++
	case v.Status == resolver.StatusError:
		r.Summary.Errors++
	}
}

// contactedProvider reports whether any verdict came from a provider lookup.
// Unsupported types, informational types and incomplete records never do.
func (r *Report) contactedProvider() bool {
	for _, c := range r.Components {
		if fromProvider(c.Verdict) {
			return true
		}
	}
	for _, c := range r.Connections {
		if fromProvider(c.Verdict) {
			return true
		}
	}
	return false
}

func fromProvider(v resolver.Verdict) bool {
	switch v.Status {
	case resolver.StatusFound, resolver.StatusNotFound:
		return true
	case resolver.StatusError:
		return v.ErrorClass != directory.ClassInvalidRecord
	}
	return false
}
