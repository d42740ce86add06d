// Package instance describes the job instance a render is for: its own
// advertised address and identity within the deployment.
package instance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec is the identity of the instance being rendered.
type Spec struct {
	Address    string `yaml:"address"`
	IP         string `yaml:"ip"`
	Name       string `yaml:"name"`
	ID         string `yaml:"id"`
	Index      int    `yaml:"index"`
	AZ         string `yaml:"az"`
	Deployment string `yaml:"deployment"`
	Bootstrap  bool   `yaml:"bootstrap"`
}

// Default returns the spec the template test harness uses when none is given.
func Default() Spec {
	return Spec{
		Address:    "my.bosh.com",
		IP:         "192.168.0.0",
		Name:       "me",
		ID:         "xxxxxx-xxxxxxxx-xxxxx",
		Index:      0,
		AZ:         "az1",
		Deployment: "my-deployment",
		Bootstrap:  false,
	}
}

// Parse decodes a YAML spec. Fields left out keep their Default values.
func Parse(data []byte) (Spec, error) {
	spec := Default()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return Spec{}, fmt.Errorf("parse instance spec: %w", err)
	}
	if spec.Address == "" {
		return Spec{}, fmt.Errorf("parse instance spec: address must not be empty")
	}
	return spec, nil
}

// LoadFile reads and parses an instance spec file.
func LoadFile(path string) (Spec, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read instance spec: %w", err)
	}
	spec, err := Parse(content)
	if err != nil {
		return Spec{}, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}
