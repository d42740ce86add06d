// Package job renders the configuration files of the metricbeat job from
// properties, consumed links, and the instance spec.
package job

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/cameronsjo/beatjob/internal/instance"
	"github.com/cameronsjo/beatjob/internal/links"
	"github.com/cameronsjo/beatjob/internal/properties"
	"github.com/cameronsjo/beatjob/internal/resolve"
)

// ErrUndeclaredLink indicates a consumed link the job spec does not declare.
var ErrUndeclaredLink = errors.New("link not declared by job")

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Input is everything one render reads.
type Input struct {
	Properties map[string]any
	Links      links.Set
	// Instance defaults to instance.Default() when its address is empty.
	Instance instance.Spec
	Logger   *slog.Logger
}

// Rendered is the output of one document.
type Rendered struct {
	Document Document
	Path     string
	Content  []byte
}

// Job renders the documents of a job spec.
type Job struct {
	spec      *Spec
	schema    *properties.Schema
	templates *template.Template
}

// New parses the embedded templates against spec. Every catalog document
// must have a template and an output path.
func New(spec *Spec) (*Job, error) {
	tmpl, err := template.New(spec.Name).
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		Funcs(renderFuncs()).
		ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	for _, doc := range catalog() {
		if tmpl.Lookup(doc.Template) == nil {
			return nil, fmt.Errorf("document %s: template %s not found", doc.ID, doc.Template)
		}
		if _, ok := spec.Templates[doc.Template]; !ok {
			return nil, fmt.Errorf("document %s: template %s has no output path in job spec", doc.ID, doc.Template)
		}
	}

	return &Job{spec: spec, schema: spec.Schema(), templates: tmpl}, nil
}

var defaultJob = sync.OnceValues(func() (*Job, error) {
	return New(DefaultSpec())
})

// Default returns the metricbeat job built from the embedded spec.
func Default() (*Job, error) {
	return defaultJob()
}

// Spec returns the job spec.
func (j *Job) Spec() *Spec {
	return j.spec
}

// Schema returns the declared properties of the job.
func (j *Job) Schema() *properties.Schema {
	return j.schema
}

// Path returns the output path of a document, relative to the job directory.
func (j *Job) Path(doc Document) string {
	return j.spec.Templates[doc.Template]
}

// Tree builds the property tree a render reads.
func (j *Job) Tree(props map[string]any) *properties.Tree {
	return properties.NewTree(props, j.schema)
}

// Render renders one document of the default job.
func Render(id string, in Input) ([]byte, error) {
	j, err := Default()
	if err != nil {
		return nil, err
	}
	return j.Render(id, in)
}

// Render renders the document with the given ID. The output is parsed back
// before it is returned; nothing is returned when any field fails.
func (j *Job) Render(id string, in Input) ([]byte, error) {
	doc, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	return j.render(doc, in)
}

// RenderAll renders every document concurrently. Results are in catalog
// order. The first failure is returned and no results are.
func (j *Job) RenderAll(in Input) ([]Rendered, error) {
	docs := catalog()
	out := make([]Rendered, len(docs))

	var g errgroup.Group
	for i, doc := range docs {
		g.Go(func() error {
			content, err := j.render(doc, in)
			if err != nil {
				return err
			}
			out[i] = Rendered{Document: doc, Path: j.Path(doc), Content: content}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *Job) render(doc Document, in Input) ([]byte, error) {
	log := in.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With("document", doc.ID)

	for _, name := range in.Links.Names() {
		if !j.spec.Consumable(name) {
			return nil, fmt.Errorf("render %s: %w: %s", doc.ID, ErrUndeclaredLink, name)
		}
	}

	self := in.Instance
	if self.Address == "" {
		self = instance.Default()
	}

	r := resolve.New(j.Tree(in.Properties), in.Links, self, resolve.WithLogger(log))
	view, err := doc.view(r)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", doc.ID, err)
	}

	var buf bytes.Buffer
	if err := j.templates.ExecuteTemplate(&buf, doc.Template, view); err != nil {
		return nil, fmt.Errorf("render %s: %w", doc.ID, err)
	}

	if err := verify(doc, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("render %s: %w", doc.ID, err)
	}

	log.Debug("rendered document", "bytes", buf.Len())
	return buf.Bytes(), nil
}

// verify parses rendered output in its declared format.
func verify(doc Document, content []byte) error {
	switch doc.Format {
	case FormatJSON:
		var v any
		if err := json.Unmarshal(content, &v); err != nil {
			return fmt.Errorf("output is not valid JSON: %w", err)
		}
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(content, &v); err != nil {
			return fmt.Errorf("output is not valid YAML: %w", err)
		}
		if doc.IsModule() {
			list, ok := v.([]any)
			if !ok || len(list) != 1 {
				return fmt.Errorf("module output must be a one-element list")
			}
		}
	}
	return nil
}

func renderFuncs() template.FuncMap {
	return template.FuncMap{
		"toYaml": func(v any) (string, error) {
			var buf bytes.Buffer
			enc := yaml.NewEncoder(&buf)
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return "", err
			}
			if err := enc.Close(); err != nil {
				return "", err
			}
			return strings.TrimSuffix(buf.String(), "\n"), nil
		},
	}
}
