package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/beatjob/internal/config"
	"github.com/cameronsjo/beatjob/internal/instance"
	"github.com/cameronsjo/beatjob/internal/job"
	"github.com/cameronsjo/beatjob/internal/links"
	"github.com/cameronsjo/beatjob/internal/properties"
	"github.com/cameronsjo/beatjob/internal/ui"
)

const (
	propertiesFlag = "properties"
	linksFlag      = "links"
	instanceFlag   = "instance"
	varFlag        = "var"
	outputFlag     = "output"
	moduleFlag     = "enable-module"
)

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP(propertiesFlag, "p", nil, "Properties file (repeatable, later files win)")
	cmd.Flags().StringP(linksFlag, "l", "", "Links file")
	cmd.Flags().StringP(instanceFlag, "i", "", "Instance spec file")
	cmd.Flags().StringArray(varFlag, nil, "Variable for ((name)) placeholders, as key=value (repeatable)")
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(outputFlag, "o", "", "Output directory")
}

// session is what every command works from: the project configuration
// with command line flags applied over it.
type session struct {
	cfg *config.Config
	job *job.Job
	log *slog.Logger
	ui  *ui.Printer
}

func newSession(cmd *cobra.Command) (*session, error) {
	log, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := loadProject(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Root != "" {
		log.Debug("loaded project configuration", "root", cfg.Root)
	}

	j, err := job.Default()
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, job: j, log: log, ui: printer(cmd)}, nil
}

// loadProject reads beatjob.yml when there is one and applies the flags
// the command defines. Flags win over the file.
func loadProject(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNotFound) {
		cfg = &config.Config{}
	} else if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Lookup(propertiesFlag) != nil && flags.Changed(propertiesFlag) {
		cfg.Properties, _ = flags.GetStringArray(propertiesFlag)
	}
	if flags.Lookup(linksFlag) != nil && flags.Changed(linksFlag) {
		cfg.Links, _ = flags.GetString(linksFlag)
	}
	if flags.Lookup(instanceFlag) != nil && flags.Changed(instanceFlag) {
		cfg.Instance, _ = flags.GetString(instanceFlag)
	}
	if flags.Lookup(outputFlag) != nil && flags.Changed(outputFlag) {
		cfg.Output, _ = flags.GetString(outputFlag)
	}
	if flags.Lookup(moduleFlag) != nil && flags.Changed(moduleFlag) {
		cfg.Modules, _ = flags.GetStringSlice(moduleFlag)
	}
	if flags.Lookup(varFlag) != nil {
		pairs, _ := flags.GetStringArray(varFlag)
		vars, err := properties.ParseVariables(pairs)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", varFlag, err)
		}
		if cfg.Vars == nil {
			cfg.Vars = make(map[string]string, len(vars))
		}
		for k, v := range vars {
			cfg.Vars[k] = v
		}
	}
	return cfg, nil
}

// input loads the properties, links and instance spec a render reads.
func (s *session) input() (job.Input, error) {
	props, err := properties.LoadFiles(s.cfg.Properties, s.cfg.Vars)
	if err != nil {
		return job.Input{}, err
	}

	var set links.Set
	if s.cfg.Links != "" {
		if set, err = links.LoadFile(s.cfg.Links); err != nil {
			return job.Input{}, err
		}
	}

	spec := instance.Default()
	if s.cfg.Instance != "" {
		if spec, err = instance.LoadFile(s.cfg.Instance); err != nil {
			return job.Input{}, err
		}
	}

	s.log.Debug("loaded render input",
		"properties", len(s.cfg.Properties),
		"links", set.Names(),
		"instance", spec.Address,
	)
	return job.Input{Properties: props, Links: set, Instance: spec, Logger: s.log}, nil
}

// outputRoot returns the configured output directory or an error naming
// the flag to set.
func (s *session) outputRoot() (string, error) {
	if s.cfg.Output == "" {
		return "", fmt.Errorf("no output directory: pass --%s or set output in %s", outputFlag, config.FileName)
	}
	return s.cfg.Output, nil
}
