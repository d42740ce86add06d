// Package output lays rendered documents out on disk: which name each file
// gets, how it is written, and how it differs from what is already there.
package output

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/cameronsjo/beatjob/internal/job"
)

// DisabledSuffix marks a module configuration metricbeat does not load.
const DisabledSuffix = ".disabled"

// Layout decides the on-disk name of each document. Module documents are
// written with DisabledSuffix unless their module is enabled.
type Layout struct {
	enabled map[string]bool
}

// NewLayout returns a layout that enables the named modules. Unknown module
// names are rejected.
func NewLayout(enabled ...string) (Layout, error) {
	known := make(map[string]bool)
	for _, id := range job.IDs() {
		doc, err := job.Lookup(id)
		if err != nil {
			return Layout{}, err
		}
		if doc.IsModule() {
			known[doc.Module.Name] = true
		}
	}

	l := Layout{enabled: make(map[string]bool, len(enabled))}
	for _, name := range enabled {
		if !known[name] {
			names := make([]string, 0, len(known))
			for k := range known {
				names = append(names, k)
			}
			sort.Strings(names)
			return Layout{}, fmt.Errorf("unknown module %q (known: %s)", name, strings.Join(names, ", "))
		}
		l.enabled[name] = true
	}
	return l, nil
}

// Enabled reports whether a module's configuration is written enabled.
func (l Layout) Enabled(module string) bool {
	return l.enabled[module]
}

// Path returns where a rendered document goes, slash-separated and
// relative to the output root.
func (l Layout) Path(r job.Rendered) string {
	p := r.Path
	if r.Document.IsModule() && l.enabled[r.Document.Module.Name] {
		p = strings.TrimSuffix(p, DisabledSuffix)
	}
	return path.Clean(p)
}

// Stale returns the path the document would have under the opposite
// enablement, or "" when there is none. A file at that path is left over
// from an earlier render and is removed on write.
func (l Layout) Stale(r job.Rendered) string {
	if !r.Document.IsModule() {
		return ""
	}
	current := l.Path(r)
	if strings.HasSuffix(current, DisabledSuffix) {
		return strings.TrimSuffix(current, DisabledSuffix)
	}
	return current + DisabledSuffix
}

// File is one document ready to be written.
type File struct {
	Document string
	Path     string
	Content  []byte
	// Stale is a path to remove when writing, or "".
	Stale string
}

// Plan maps rendered documents to files.
func (l Layout) Plan(rendered []job.Rendered) []File {
	files := make([]File, len(rendered))
	for i, r := range rendered {
		files[i] = File{
			Document: r.Document.ID,
			Path:     l.Path(r),
			Content:  r.Content,
			Stale:    l.Stale(r),
		}
	}
	return files
}
