// Package preflight checks the files a render reads and the directory it
// writes before any rendering starts.
package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cameronsjo/beatjob/internal/config"
)

// Check is one path the render depends on.
type Check struct {
	Name string
	Path string
	// Dir expects a directory rather than a regular file.
	Dir bool
	// Required makes a failure an error; otherwise it is a warning.
	Required bool
	Hint     string
}

// Inputs returns the checks for a project configuration. Unset paths are
// not checked.
func Inputs(cfg *config.Config) []Check {
	var checks []Check
	for _, p := range cfg.Properties {
		checks = append(checks, Check{
			Name:     "properties",
			Path:     p,
			Required: true,
			Hint:     "pass an existing file with --properties or fix properties in " + config.FileName,
		})
	}
	if cfg.Links != "" {
		checks = append(checks, Check{
			Name:     "links",
			Path:     cfg.Links,
			Required: true,
			Hint:     "pass an existing file with --links or unset " + config.EnvLinks,
		})
	}
	if cfg.Instance != "" {
		checks = append(checks, Check{
			Name:     "instance",
			Path:     cfg.Instance,
			Required: true,
			Hint:     "pass an existing file with --instance",
		})
	}
	if cfg.Output != "" {
		checks = append(checks, Check{
			Name: "output",
			Path: cfg.Output,
			Dir:  true,
			Hint: "it is created on the first write",
		})
	}
	return checks
}

// Verify stats the path of c.
func (c Check) Verify() error {
	info, err := os.Stat(c.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s not found", c.Path)
		}
		return err
	}
	switch {
	case c.Dir && !info.IsDir():
		return fmt.Errorf("%s is not a directory", c.Path)
	case !c.Dir && !info.Mode().IsRegular():
		return fmt.Errorf("%s is not a regular file", c.Path)
	}
	return nil
}

// Run verifies every check. Failures of required checks are returned as
// errors and the rest as warnings, each with its hint.
func Run(checks []Check) (warnings []string, errs []string) {
	for _, c := range checks {
		err := c.Verify()
		if err == nil {
			continue
		}
		msg := fmt.Sprintf("%s: %v (%s)", c.Name, err, c.Hint)
		if c.Required {
			errs = append(errs, msg)
		} else {
			warnings = append(warnings, msg)
		}
	}
	return warnings, errs
}

// Writable reports whether files can be created in dir, or in the nearest
// existing parent when dir does not exist yet.
func Writable(dir string) error {
	for {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return fmt.Errorf("no existing parent of %s", dir)
		}
		dir = parent
	}

	f, err := os.CreateTemp(dir, ".beatjob-preflight-*")
	if err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
