// Package envfile parses .env-style KEY=VALUE text.
//
// Values are kept verbatim apart from surrounding whitespace: quotes are not
// stripped and ${VAR} references are not expanded.
package envfile

import (
	"sort"
	"strings"
)

// Variables is an ordered KEY=VALUE mapping. Keys keep the position of their
// first occurrence; values follow the last one.
type Variables struct {
	keys   []string
	values map[string]string
}

// New returns an empty Variables.
func New() *Variables {
	return &Variables{values: make(map[string]string)}
}

// Parse reads .env content. Blank lines, '#' comments, lines without '=' and
// lines with an empty key are skipped.
func Parse(content string) *Variables {
	vars := New()
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		vars.Set(key, strings.TrimSpace(value))
	}
	return vars
}

// Set assigns value to key.
func (v *Variables) Set(key, value string) {
	if _, exists := v.values[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.values[key] = value
}

// Lookup returns the value for key and whether it was present.
func (v *Variables) Lookup(key string) (string, bool) {
	value, ok := v.values[key]
	return value, ok
}

// Keys returns the keys in first-seen order.
func (v *Variables) Keys() []string {
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// Len returns the number of distinct keys.
func (v *Variables) Len() int {
	return len(v.keys)
}

// Map returns a copy of the variables as a plain map.
func (v *Variables) Map() map[string]string {
	out := make(map[string]string, len(v.values))
	for k, val := range v.values {
		out[k] = val
	}
	return out
}

// Format serializes vars canonically: one KEY=VALUE per line, keys sorted.
func Format(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(vars[k])
		b.WriteByte('\n')
	}
	return b.String()
}
