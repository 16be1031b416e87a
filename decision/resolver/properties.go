package resolver

import (
	"fmt"
	"strings"
)

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// StringProperty returns the first non-empty string value among keys.
// Scalars are stringified, so `cluster_identifier: 42` still yields "42".
func StringProperty(props map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := props[key]
		if !ok || v == nil {
			continue
		}
		var s string
		switch val := v.(type) {
		case string:
			s = val
		case int, int64, float64, bool:
			s = fmt.Sprintf("%v", val)
		default:
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// Identifier implements the exact-key rule: a property override wins,
// the declared name is the fallback.
func Identifier(props map[string]any, name string, overrideKeys ...string) string {
	if id := StringProperty(props, overrideKeys...); id != "" {
		return id
	}
	return name
}

// FirstContaining returns the index of the first candidate whose name contains
// needle, plus how many other candidates also contain it. Provider order is
// kept: when several real resources share the substring the first listed wins.
func FirstContaining(names []string, needle string) (index int, others int) {
	index = -1
	if needle == "" {
		return index, 0
	}
	for i, n := range names {
		if !strings.Contains(n, needle) {
			continue
		}
		if index < 0 {
			index = i
			continue
		}
		others++
	}
	return index, others
}
