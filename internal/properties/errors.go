package properties

import (
	"errors"
	"fmt"
)

// Property resolution errors.
var (
	// ErrMissingRequiredProperty indicates a path has neither a value nor a declared default.
	ErrMissingRequiredProperty = errors.New("missing required property")

	// ErrMalformedProperty indicates a value exists but has the wrong shape or type.
	ErrMalformedProperty = errors.New("malformed property")
)

// PropertyError ties a resolution failure to the property path it happened on.
type PropertyError struct {
	Path   string
	Err    error
	Detail string
}

func (e *PropertyError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("property %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("property %q: %v: %s", e.Path, e.Err, e.Detail)
}

func (e *PropertyError) Unwrap() error {
	return e.Err
}

func missing(path string) error {
	return &PropertyError{Path: path, Err: ErrMissingRequiredProperty}
}

func malformed(path string, err error) error {
	return &PropertyError{Path: path, Err: ErrMalformedProperty, Detail: err.Error()}
}
