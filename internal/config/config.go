// Package config handles project discovery and configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/elastic/go-ucfg/yaml"
)

// FileName is the project configuration file searched for.
const FileName = "beatjob.yml"

// Environment overrides.
const (
	EnvProperties = "BEATJOB_PROPERTIES"
	EnvLinks      = "BEATJOB_LINKS"
	EnvOutput     = "BEATJOB_OUTPUT"
)

// ErrNotFound is returned when no beatjob.yml exists in the working
// directory or any of its parents.
var ErrNotFound = errors.New("project root not found")

// Config holds the beatjob project configuration. Relative paths are
// resolved against Root when loaded.
type Config struct {
	// Root is the directory containing beatjob.yml.
	Root string `config:",ignore"`

	// Properties are merged in order, later files winning.
	Properties []string `config:"properties"`
	Links      string   `config:"links"`
	Instance   string   `config:"instance"`

	// Output is the directory documents are written under.
	Output string `config:"output"`

	// Modules are written enabled rather than with the .disabled suffix.
	Modules []string `config:"modules"`

	// Snapshot backs up the output directory before each write.
	Snapshot bool `config:"snapshot"`

	// Vars are substituted for ((name)) placeholders in property files.
	Vars map[string]string `config:"vars"`
}

// FindRoot searches upward from the current directory for beatjob.yml.
func FindRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return findRootFrom(dir)
}

func findRootFrom(dir string) (string, error) {
	for {
		info, err := os.Stat(filepath.Join(dir, FileName))
		if err == nil && !info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%w (no %s)", ErrNotFound, FileName)
}

// Load finds the project root and reads its beatjob.yml, then applies
// environment overrides.
func Load() (*Config, error) {
	root, err := FindRoot()
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(root, FileName))
}

// LoadFile reads one project configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := &Config{}
	if strings.TrimSpace(string(data)) != "" {
		c, err := yaml.NewConfig(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if err := c.Unpack(cfg); err != nil {
			return nil, fmt.Errorf("unpack %s: %w", path, err)
		}
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	cfg.Root = abs
	cfg.applyEnv()
	cfg.resolvePaths()
	return cfg, nil
}

// applyEnv overrides file settings from the environment. BEATJOB_PROPERTIES
// is a list separated like PATH.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvProperties); v != "" {
		c.Properties = filepath.SplitList(v)
	}
	if v := os.Getenv(EnvLinks); v != "" {
		c.Links = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output = v
	}
}

func (c *Config) resolvePaths() {
	for i, p := range c.Properties {
		c.Properties[i] = c.abs(p)
	}
	c.Links = c.abs(c.Links)
	c.Instance = c.abs(c.Instance)
	c.Output = c.abs(c.Output)
}

func (c *Config) abs(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Root, path)
}
