// Package resolve decides, field by field, which source supplies each value
// of a rendered document. Every field is an ordered chain of named sources;
// the first source that yields a value wins.
package resolve

import (
	"errors"
	"fmt"

	"github.com/cameronsjo/beatjob/internal/properties"
)

// ErrUnresolved indicates no source in a required chain produced a value.
var ErrUnresolved = errors.New("no source produced a value")

// Source is one candidate for a field. Get reports ok=false when the source
// has nothing to offer; a non-nil error aborts the whole chain.
type Source[T any] struct {
	Name string
	Get  func() (T, bool, error)
}

// Field is the outcome of a chain: the value, the source that won, and
// whether any source produced a value at all.
type Field[T any] struct {
	Value   T
	Source  string
	Present bool
}

// Optional walks sources in order and returns the first value found. A
// chain where no source produces a value yields an absent Field.
func Optional[T any](field string, sources ...Source[T]) (Field[T], error) {
	for _, src := range sources {
		v, ok, err := src.Get()
		if err != nil {
			return Field[T]{}, fmt.Errorf("%s (from %s): %w", field, src.Name, err)
		}
		if ok {
			return Field[T]{Value: v, Source: src.Name, Present: true}, nil
		}
	}
	return Field[T]{}, nil
}

// Required is Optional for fields that must resolve.
func Required[T any](field string, sources ...Source[T]) (Field[T], error) {
	f, err := Optional(field, sources...)
	if err != nil {
		return f, err
	}
	if !f.Present {
		return f, fmt.Errorf("%s: %w", field, ErrUnresolved)
	}
	return f, nil
}

// Fixed always yields v.
func Fixed[T any](name string, v T) Source[T] {
	return Source[T]{Name: name, Get: func() (T, bool, error) {
		return v, true, nil
	}}
}

// Explicit yields the value set at path in the tree, converted with conv.
// Declared defaults are ignored so the chain can continue past it.
func Explicit[T any](tree *properties.Tree, path string, conv func(any) (T, error)) Source[T] {
	return Source[T]{Name: "property " + path, Get: func() (T, bool, error) {
		var zero T
		raw, ok := tree.Lookup(path)
		if !ok {
			return zero, false, nil
		}
		v, err := conv(raw)
		if err != nil {
			return zero, false, &properties.PropertyError{Path: path, Err: properties.ErrMalformedProperty, Detail: err.Error()}
		}
		return v, true, nil
	}}
}

// Declared yields the schema's declared default for path.
func Declared[T any](tree *properties.Tree, path string, conv func(any) (T, error)) Source[T] {
	return Source[T]{Name: "default " + path, Get: func() (T, bool, error) {
		var zero T
		raw, ok := tree.Schema().Default(path)
		if !ok || raw == nil {
			return zero, false, nil
		}
		v, err := conv(raw)
		if err != nil {
			return zero, false, &properties.PropertyError{Path: path, Err: properties.ErrMalformedProperty, Detail: "declared default: " + err.Error()}
		}
		return v, true, nil
	}}
}

// NonEmpty treats an empty string from src as absent so the chain moves on.
func NonEmpty(src Source[string]) Source[string] {
	return Source[string]{Name: src.Name, Get: func() (string, bool, error) {
		v, ok, err := src.Get()
		if err != nil || !ok || v == "" {
			return "", false, err
		}
		return v, true, nil
	}}
}

// NonEmptyList treats an empty list from src as absent so the chain moves on.
func NonEmptyList[E any](src Source[[]E]) Source[[]E] {
	return Source[[]E]{Name: src.Name, Get: func() ([]E, bool, error) {
		v, ok, err := src.Get()
		if err != nil || !ok || len(v) == 0 {
			return nil, false, err
		}
		return v, true, nil
	}}
}
