package aws

import (
	"fmt"
	"strconv"

	"infra-check/decision/resolver"
)

// containment resolves name against a provider listing. The first listed
// candidate whose name contains the declared name wins.
func containment(kind, name string, names []string, match func(i int) resolver.Verdict) resolver.Verdict {
	idx, others := resolver.FirstContaining(names, name)
	if idx < 0 {
		return resolver.NotFound(fmt.Sprintf("no %s name contains %q", kind, name))
	}
	v := match(idx)
	if others > 0 && v.Exists {
		if v.Fields == nil {
			v.Fields = make(map[string]string)
		}
		v.Fields["other_matches"] = strconv.Itoa(others)
	}
	return v
}

// fields builds a field map from key/value pairs, dropping empty values
func fields(kv ...string) map[string]string {
	out := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			out[kv[i]] = kv[i+1]
		}
	}
	return out
}
