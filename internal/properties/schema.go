package properties

import (
	"sort"
	"strings"
)

// Wildcard matches any single path segment in a schema path.
const Wildcard = "*"

// Definition declares one property of a job.
type Definition struct {
	Description string
	Default     any
	HasDefault  bool
}

// Schema is the set of properties a job declares, keyed by dotted path.
// Paths may contain Wildcard segments, e.g. "metricbeat.modules.*.period".
type Schema struct {
	defs  map[string]Definition
	paths []string
}

// NewSchema builds a Schema from definitions keyed by dotted path.
func NewSchema(defs map[string]Definition) *Schema {
	s := &Schema{defs: make(map[string]Definition, len(defs))}
	for path, def := range defs {
		s.defs[path] = def
		s.paths = append(s.paths, path)
	}
	// Exact paths sort before wildcard paths with the same prefix, so the
	// most specific declaration is matched first.
	sort.Slice(s.paths, func(i, j int) bool {
		wi := strings.Count(s.paths[i], Wildcard)
		wj := strings.Count(s.paths[j], Wildcard)
		if wi != wj {
			return wi < wj
		}
		return s.paths[i] < s.paths[j]
	})
	return s
}

// Paths returns every declared path in match order.
func (s *Schema) Paths() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Lookup returns the definition matching path.
func (s *Schema) Lookup(path string) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}
	if def, ok := s.defs[path]; ok {
		return def, true
	}
	segments := strings.Split(path, ".")
	for _, declared := range s.paths {
		if matchPath(strings.Split(declared, "."), segments) {
			return s.defs[declared], true
		}
	}
	return Definition{}, false
}

// Default returns the declared default for path, if one exists.
func (s *Schema) Default(path string) (any, bool) {
	def, ok := s.Lookup(path)
	if !ok || !def.HasDefault {
		return nil, false
	}
	return deepCopy(def.Default), true
}

func matchPath(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, p := range pattern {
		if p != Wildcard && p != segments[i] {
			return false
		}
	}
	return true
}
