package links

import (
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML list of links:
//
//	- name: redis
//	  instances:
//	  - address: 10.0.0.1
//	  properties:
//	    port: 6379
//
// Unknown keys and values of the wrong type are rejected.
func Parse(data []byte) (Set, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Set{}, fmt.Errorf("parse links: %w", err)
	}
	if raw == nil {
		return NewSet()
	}

	var links []Link
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &links,
		ErrorUnused: true,
	})
	if err != nil {
		return Set{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Set{}, fmt.Errorf("decode links: %w", err)
	}
	return NewSet(links...)
}

// LoadFile reads and parses a links file.
func LoadFile(path string) (Set, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read links file: %w", err)
	}

	set, err := Parse(content)
	if err != nil {
		return Set{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}
