package job

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cameronsjo/beatjob/internal/resolve"
)

// ErrUnknownDocument indicates a document ID that is not in the catalog.
var ErrUnknownDocument = errors.New("unknown document")

// Document IDs.
const (
	DocMetricbeat = "metricbeat.yml"
	DocKafka      = "kafka"
	DocZookeeper  = "zookeeper"
	DocRedis      = "redis"
	DocILMPolicy  = "ilm-policy"
)

// Format is the serialization of a rendered document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Modules metricbeat ships a disabled configuration for.
var (
	Kafka     = resolve.Module{Name: "kafka", Link: "kafka", DefaultPort: 9092}
	Zookeeper = resolve.Module{Name: "zookeeper", Link: "zookeeper", DefaultPort: 2181}
	Redis     = resolve.Module{Name: "redis", Link: "redis", DefaultPort: 6379}
)

// Document is one file the job renders.
type Document struct {
	ID       string
	Template string
	Format   Format
	// Module is set for modules.d documents.
	Module *resolve.Module

	view func(*resolve.Resolver) (any, error)
}

// IsModule reports whether the document configures a metricbeat module.
func (d Document) IsModule() bool {
	return d.Module != nil
}

func catalog() []Document {
	return []Document{
		{ID: DocMetricbeat, Template: "metricbeat.yml.tmpl", Format: FormatYAML, view: beatView},
		moduleDocument(DocKafka, Kafka),
		moduleDocument(DocZookeeper, Zookeeper),
		moduleDocument(DocRedis, Redis),
		{ID: DocILMPolicy, Template: "metricbeat_ilm_policy.json.tmpl", Format: FormatJSON, view: policyView},
	}
}

func moduleDocument(id string, m resolve.Module) Document {
	module := m
	return Document{
		ID:       id,
		Template: m.Name + ".yml.tmpl",
		Format:   FormatYAML,
		Module:   &module,
		view: func(r *resolve.Resolver) (any, error) {
			return moduleView(r, module)
		},
	}
}

// IDs returns every document ID in catalog order.
func IDs() []string {
	docs := catalog()
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids
}

// Lookup returns the catalog document with the given ID.
func Lookup(id string) (Document, error) {
	for _, d := range catalog() {
		if d.ID == id {
			return d, nil
		}
	}
	return Document{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownDocument, id, strings.Join(IDs(), ", "))
}
