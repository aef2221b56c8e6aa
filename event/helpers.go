// Package event is the example Sentry-like crash-report schema that
// exercises the pii package's traversal: a concrete type hierarchy with a
// manually implemented Process method per type, the idiomatic-Go
// substitute for a derive-macro-generated visitor (spec.md §9).
package event

import "eventscrub/pii"

// has reports whether m contains key, distinguishing "absent" from
// "present but null" the way the decode family expects.
func has(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

// setField stores enc into out under key, unless enc is the SkipField
// sentinel (an Option-less field that should be omitted entirely).
func setField(out map[string]any, key string, enc any) {
	if _, skip := enc.(pii.SkipField); skip {
		return
	}
	out[key] = enc
}

func asMap(raw any) (map[string]any, bool) {
	m, ok := raw.(map[string]any)
	return m, ok
}
