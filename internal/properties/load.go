package properties

import (
	"fmt"
	"os"

	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"
	yamlv3 "gopkg.in/yaml.v3"
)

// Parse decodes a YAML properties document after ((var)) interpolation.
// Dotted keys ("metricbeat.elasticsearch.port: 1234") are expanded into
// nested mappings.
func Parse(data []byte, variables map[string]string) (map[string]any, error) {
	interpolated, err := Interpolate(string(data), variables)
	if err != nil {
		return nil, err
	}

	// go-ucfg rejects a document without a root mapping, so empty and
	// comment-only files are handled up front.
	var top any
	if err := yamlv3.Unmarshal([]byte(interpolated), &top); err != nil {
		return nil, fmt.Errorf("parse properties: %w", err)
	}
	if top == nil {
		return make(map[string]any), nil
	}
	if _, ok := top.(map[string]any); !ok {
		return nil, fmt.Errorf("parse properties: expected a mapping at the top level, got %T", top)
	}

	cfg, err := yaml.NewConfig([]byte(interpolated), ucfg.PathSep("."))
	if err != nil {
		return nil, fmt.Errorf("parse properties: %w", err)
	}

	raw := make(map[string]any)
	if err := cfg.Unpack(&raw, ucfg.PathSep(".")); err != nil {
		return nil, fmt.Errorf("unpack properties: %w", err)
	}

	normalized, _ := Normalize(raw).(map[string]any)
	if normalized == nil {
		normalized = make(map[string]any)
	}
	return normalized, nil
}

// LoadFile reads and parses a properties file.
func LoadFile(path string, variables map[string]string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read properties file: %w", err)
	}

	data, err := Parse(content, variables)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// LoadFiles reads every file in order and merges each one over the previous.
func LoadFiles(paths []string, variables map[string]string) (map[string]any, error) {
	merged := make(map[string]any)
	for _, path := range paths {
		data, err := LoadFile(path, variables)
		if err != nil {
			return nil, err
		}
		merged = Merge(merged, data)
	}
	return merged, nil
}
