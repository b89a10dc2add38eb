package cache

import (
	"path/filepath"
	"sort"
	"strings"
)

// Param is one named parameter of a resource key.
type Param struct {
	Name  string
	Value string
}

// Key addresses one cacheable unit of upstream data: a resource kind plus
// its parameters in canonical order. Two keys built from the same parameters
// are identical regardless of the order the caller supplied them in.
type Key struct {
	Kind   string
	Params []Param
}

// NewKey canonicalizes params by sorting on name.
func NewKey(kind string, params map[string]string) Key {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	ordered := make([]Param, 0, len(names))
	for _, name := range names {
		ordered = append(ordered, Param{Name: name, Value: params[name]})
	}
	return Key{Kind: kind, Params: ordered}
}

// String renders the key as kind?name=value&... for map and singleflight use.
func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Kind
	}
	var sb strings.Builder
	sb.WriteString(k.Kind)
	sb.WriteByte('?')
	for i, p := range k.Params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(p.Name)
		sb.WriteByte('=')
		sb.WriteString(p.Value)
	}
	return sb.String()
}

// Path renders the key as a relative filesystem path:
// <kind>/<value1>/<value2>/... with values in canonical param order.
func (k Key) Path() string {
	parts := make([]string, 0, len(k.Params)+1)
	parts = append(parts, sanitizePathPart(k.Kind))
	for _, p := range k.Params {
		parts = append(parts, sanitizePathPart(p.Value))
	}
	return filepath.Join(parts...)
}

// sanitizePathPart keeps season names like "2023/2024" from escaping the
// intended directory level.
func sanitizePathPart(raw string) string {
	part := strings.TrimSpace(raw)
	part = strings.ReplaceAll(part, "/", "_")
	part = strings.ReplaceAll(part, string(filepath.Separator), "_")
	part = strings.ReplaceAll(part, " ", "_")
	part = strings.ReplaceAll(part, "..", "_")
	if part == "" {
		part = "_"
	}
	return part
}
