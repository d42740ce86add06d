// Package properties implements the property tree a job is rendered from:
// dotted-path lookup, declared defaults, typed accessors, and loading of
// property files with overlays and ((var)) interpolation.
package properties

import (
	"strings"
)

// Tree is an immutable snapshot of job properties plus the schema that
// supplies declared defaults.
type Tree struct {
	data   map[string]any
	schema *Schema
}

// NewTree returns a Tree over a deep copy of data. schema may be nil, in
// which case only explicit values resolve.
func NewTree(data map[string]any, schema *Schema) *Tree {
	normalized, _ := Normalize(data).(map[string]any)
	if normalized == nil {
		normalized = make(map[string]any)
	}
	return &Tree{data: normalized, schema: schema}
}

// Schema returns the schema backing declared defaults.
func (t *Tree) Schema() *Schema {
	return t.schema
}

// Data returns a deep copy of the explicit values.
func (t *Tree) Data() map[string]any {
	return deepCopy(t.data).(map[string]any)
}

// Lookup returns the explicit value at path. Declared defaults are not
// consulted and null values count as absent.
func (t *Tree) Lookup(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var current any = t.data
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok || current == nil {
			return nil, false
		}
	}
	return deepCopy(current), true
}

// Has reports whether path carries an explicit, non-null value.
func (t *Tree) Has(path string) bool {
	_, ok := t.Lookup(path)
	return ok
}

// Get returns the explicit value at path, or def when it is absent or null.
func (t *Tree) Get(path string, def any) any {
	if v, ok := t.Lookup(path); ok {
		return v
	}
	return def
}

// Require returns the explicit value at path, falling back to the schema's
// declared default. It fails with ErrMissingRequiredProperty when neither exists.
func (t *Tree) Require(path string) (any, error) {
	if v, ok := t.Lookup(path); ok {
		return v, nil
	}
	if v, ok := t.schema.Default(path); ok && v != nil {
		return v, nil
	}
	return nil, missing(path)
}

// String resolves path as a scalar rendered to a string.
func (t *Tree) String(path string) (string, error) {
	v, err := t.Require(path)
	if err != nil {
		return "", err
	}
	s, err := ToString(v)
	if err != nil {
		return "", malformed(path, err)
	}
	return s, nil
}

// Int resolves path as an integer.
func (t *Tree) Int(path string) (int, error) {
	v, err := t.Require(path)
	if err != nil {
		return 0, err
	}
	n, err := ToInt(v)
	if err != nil {
		return 0, malformed(path, err)
	}
	return n, nil
}

// Port resolves path as a TCP port.
func (t *Tree) Port(path string) (int, error) {
	v, err := t.Require(path)
	if err != nil {
		return 0, err
	}
	n, err := ToPort(v)
	if err != nil {
		return 0, malformed(path, err)
	}
	return n, nil
}

// StringSlice resolves path as a list of scalars.
func (t *Tree) StringSlice(path string) ([]string, error) {
	v, err := t.Require(path)
	if err != nil {
		return nil, err
	}
	s, err := ToStringSlice(v)
	if err != nil {
		return nil, malformed(path, err)
	}
	return s, nil
}

// Map resolves path as a nested mapping.
func (t *Tree) Map(path string) (map[string]any, error) {
	v, err := t.Require(path)
	if err != nil {
		return nil, err
	}
	m, err := ToMap(v)
	if err != nil {
		return nil, malformed(path, err)
	}
	return m, nil
}
