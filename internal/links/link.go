// Package links models the links a job consumes: named groups of instances
// that another job exposes, with optional link-scoped properties.
package links

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cameronsjo/beatjob/internal/properties"
)

// Link errors.
var (
	// ErrMalformedLinkProperty indicates a link property exists but has the wrong type.
	ErrMalformedLinkProperty = errors.New("malformed link property")

	// ErrDuplicateLink indicates two links share a name in one set.
	ErrDuplicateLink = errors.New("duplicate link")
)

// Instance is one running replica behind a link.
type Instance struct {
	Address   string `mapstructure:"address"`
	ID        string `mapstructure:"id"`
	Name      string `mapstructure:"name"`
	Index     int    `mapstructure:"index"`
	AZ        string `mapstructure:"az"`
	Bootstrap bool   `mapstructure:"bootstrap"`
}

// Link is a named, ordered list of instances plus link-scoped properties.
type Link struct {
	Name       string         `mapstructure:"name"`
	Instances  []Instance     `mapstructure:"instances"`
	Properties map[string]any `mapstructure:"properties"`
}

// Addresses returns instance addresses in declaration order. Duplicates are kept.
func (l *Link) Addresses() []string {
	addrs := make([]string, 0, len(l.Instances))
	for _, inst := range l.Instances {
		addrs = append(addrs, inst.Address)
	}
	return addrs
}

// Property returns the link property at a dotted path.
func (l *Link) Property(path string) (any, bool) {
	var current any = l.Properties
	for _, segment := range strings.Split(path, ".") {
		m, err := properties.ToMap(current)
		if err != nil {
			return nil, false
		}
		var ok bool
		current, ok = m[segment]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

// String returns a scalar link property as a string. Absence is not an error.
func (l *Link) String(path string) (string, bool, error) {
	v, ok := l.Property(path)
	if !ok {
		return "", false, nil
	}
	s, err := properties.ToString(v)
	if err != nil {
		return "", false, l.malformed(path, err)
	}
	return s, true, nil
}

// Port returns the link's "port" property. A non-numeric port is an error.
func (l *Link) Port() (int, bool, error) {
	v, ok := l.Property("port")
	if !ok {
		return 0, false, nil
	}
	port, err := properties.ToPort(v)
	if err != nil {
		return 0, false, l.malformed("port", err)
	}
	return port, true, nil
}

func (l *Link) malformed(path string, err error) error {
	return fmt.Errorf("link %q property %q: %w: %v", l.Name, path, ErrMalformedLinkProperty, err)
}

// Set holds the links consumed by one render, at most one per name.
type Set struct {
	links map[string]*Link
}

// NewSet builds a Set. Two links with the same name are rejected.
func NewSet(links ...Link) (Set, error) {
	s := Set{links: make(map[string]*Link, len(links))}
	for _, link := range links {
		if link.Name == "" {
			return Set{}, errors.New("link without a name")
		}
		if _, exists := s.links[link.Name]; exists {
			return Set{}, fmt.Errorf("%w: %s", ErrDuplicateLink, link.Name)
		}
		l := link
		l.Instances = append([]Instance(nil), link.Instances...)
		l.Properties, _ = properties.Normalize(link.Properties).(map[string]any)
		s.links[link.Name] = &l
	}
	return s, nil
}

// MustSet is NewSet for fixed inputs; it panics on error.
func MustSet(links ...Link) Set {
	s, err := NewSet(links...)
	if err != nil {
		panic(err)
	}
	return s
}

// Resolve returns the named link, or false when it was not consumed.
func (s Set) Resolve(name string) (*Link, bool) {
	l, ok := s.links[name]
	return l, ok
}

// Names returns the consumed link names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s.links))
	for name := range s.links {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of consumed links.
func (s Set) Len() int {
	return len(s.links)
}
