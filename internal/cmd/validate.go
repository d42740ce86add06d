package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/beatjob/internal/job"
	"github.com/cameronsjo/beatjob/internal/output"
	"github.com/cameronsjo/beatjob/internal/preflight"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Render every document and report problems",
	Long: `Validate properties, links and the instance spec without writing.

The input files are checked first, along with the output directory
when one is set. Every document is then rendered and parsed back. Failures are errors and make
the command exit non-zero. Properties the job does not declare are
reported as warnings, since they are usually typos.

Examples:
  beatjob validate -p properties.yml -l links.yml
  beatjob validate --enable-module redis`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	addInputFlags(validateCmd)
	addOutputFlag(validateCmd)
	validateCmd.Flags().StringSlice(moduleFlag, nil, "Module written enabled (repeatable)")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	var errs, warnings int

	checkWarnings, checkErrs := preflight.Run(preflight.Inputs(s.cfg))
	for _, w := range checkWarnings {
		s.ui.Warning("%s", w)
		warnings++
	}
	for _, e := range checkErrs {
		s.ui.Error("%s", e)
		errs++
	}
	if s.cfg.Output != "" {
		if err := preflight.Writable(s.cfg.Output); err != nil {
			s.ui.Error("output: %v", err)
			errs++
		}
	}
	if len(checkErrs) > 0 {
		return fmt.Errorf("validation failed: %d error(s), %d warning(s)", errs, warnings)
	}

	in, err := s.input()
	if err != nil {
		return err
	}

	if _, err := output.NewLayout(s.cfg.Modules...); err != nil {
		s.ui.Error("%v", err)
		errs++
	}

	for _, path := range s.job.Spec().Undeclared(s.job.Tree(in.Properties)) {
		s.ui.Warning("property %s is not declared by the job", path)
		warnings++
	}

	for _, id := range job.IDs() {
		if _, err := s.job.Render(id, in); err != nil {
			s.ui.Error("%s: %v", id, err)
			errs++
			continue
		}
		s.ui.Success("%s", id)
	}

	if errs > 0 {
		return fmt.Errorf("validation failed: %d error(s), %d warning(s)", errs, warnings)
	}
	if warnings > 0 {
		s.ui.Warning("Validation passed with %d warning(s)", warnings)
		return nil
	}
	s.ui.Success("Configuration is valid")
	return nil
}
