package job

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cameronsjo/beatjob/internal/properties"
)

//go:embed spec.yml
var specYAML []byte

// Spec is the job specification: templates and the paths they render to,
// the links the job may consume, and its declared properties.
type Spec struct {
	Name       string                  `yaml:"name"`
	Templates  map[string]string       `yaml:"templates"`
	Consumes   []Consume               `yaml:"consumes"`
	Properties map[string]PropertySpec `yaml:"properties"`
}

// Consume declares a link the job can consume.
type Consume struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional"`
}

// PropertySpec declares one job property. HasDefault distinguishes an
// explicit null or empty default from no default at all.
type PropertySpec struct {
	Description string
	Default     any
	HasDefault  bool
}

// UnmarshalYAML records whether a default key was present.
func (p *PropertySpec) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if d, ok := raw["description"].(string); ok {
		p.Description = d
	}
	p.Default, p.HasDefault = raw["default"]
	return nil
}

// ParseSpec decodes a job spec document.
func ParseSpec(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse job spec: %w", err)
	}
	if spec.Name == "" {
		return nil, fmt.Errorf("parse job spec: name is required")
	}
	seen := make(map[string]bool, len(spec.Consumes))
	for _, c := range spec.Consumes {
		if seen[c.Name] {
			return nil, fmt.Errorf("parse job spec: link %q consumed twice", c.Name)
		}
		seen[c.Name] = true
	}
	return &spec, nil
}

// DefaultSpec returns the embedded metricbeat job spec.
func DefaultSpec() *Spec {
	spec, err := ParseSpec(specYAML)
	if err != nil {
		panic(err)
	}
	return spec
}

// Schema converts the declared properties into a properties.Schema.
func (s *Spec) Schema() *properties.Schema {
	defs := make(map[string]properties.Definition, len(s.Properties))
	for path, p := range s.Properties {
		defs[path] = properties.Definition{
			Description: p.Description,
			Default:     properties.Normalize(p.Default),
			HasDefault:  p.HasDefault,
		}
	}
	return properties.NewSchema(defs)
}

// Consumable reports whether the job declares a link with the given name.
func (s *Spec) Consumable(name string) bool {
	for _, c := range s.Consumes {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Undeclared returns the paths in tree that the job does not declare,
// sorted. A declared path covers everything nested below it; empty
// mappings and nulls are not reported.
func (s *Spec) Undeclared(tree *properties.Tree) []string {
	schema := s.Schema()
	var out []string
	var walk func(prefix string, v any)
	walk = func(prefix string, v any) {
		if prefix != "" {
			if _, ok := schema.Lookup(prefix); ok {
				return
			}
		}
		m, ok := v.(map[string]any)
		if !ok {
			if prefix != "" && v != nil {
				out = append(out, prefix)
			}
			return
		}
		for k, child := range m {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}
			walk(path, child)
		}
	}
	walk("", tree.Data())
	sort.Strings(out)
	return out
}
