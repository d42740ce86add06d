package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/beatjob/internal/job"
	"github.com/cameronsjo/beatjob/internal/output"
)

const (
	diffFlag     = "diff"
	snapshotFlag = "snapshot"
)

var renderCmd = &cobra.Command{
	Use:   "render [document...]",
	Short: "Render job documents",
	Long: `Render metricbeat job documents.

Without --output the documents are printed to stdout. With --output they
are written under the directory using the job layout:

  config/metricbeat.yml
  config/modules.d/<module>.yml.disabled
  config/metricbeat_ilm_policy.json

Modules named with --enable-module are written without the .disabled
suffix, and a leftover file under the other name is removed.

Examples:
  # Print every document with default properties
  beatjob render

  # Print the redis module using deployment properties and links
  beatjob render redis -p properties.yml -l links.yml

  # Overlay environment properties and preview the change on disk
  beatjob render -p base.yml -p prod.yml -o /var/vcap/jobs/metricbeat --diff

  # Write, enabling kafka, with a backup of the previous files
  beatjob render -o out --enable-module kafka --snapshot`,
	ValidArgs: job.IDs(),
	RunE:      runRender,
}

func init() {
	addInputFlags(renderCmd)
	addOutputFlag(renderCmd)
	renderCmd.Flags().StringSlice(moduleFlag, nil, "Module written enabled (repeatable)")
	renderCmd.Flags().BoolP(diffFlag, "d", false, "Show a diff against the output directory instead of writing")
	renderCmd.Flags().Bool(snapshotFlag, false, "Snapshot the output directory before writing")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	for _, id := range args {
		if _, err := job.Lookup(id); err != nil {
			return err
		}
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	in, err := s.input()
	if err != nil {
		return err
	}

	diff, err := cmd.Flags().GetBool(diffFlag)
	if err != nil {
		return flagError(err, diffFlag)
	}
	if s.cfg.Output == "" && !diff {
		return printDocuments(cmd, s, in, args)
	}

	root, err := s.outputRoot()
	if err != nil {
		return err
	}
	layout, err := output.NewLayout(s.cfg.Modules...)
	if err != nil {
		return err
	}
	rendered, err := s.job.RenderAll(in)
	if err != nil {
		return err
	}
	files := selectFiles(layout.Plan(rendered), args)

	if diff {
		text, err := output.Diff(root, files)
		if err != nil {
			return err
		}
		if text == "" {
			s.ui.Info("No changes")
			return nil
		}
		s.ui.Diff(text)
		return nil
	}

	snapshot, err := cmd.Flags().GetBool(snapshotFlag)
	if err != nil {
		return flagError(err, snapshotFlag)
	}
	w := &output.Writer{Root: root, Snapshot: snapshot || s.cfg.Snapshot, Logger: s.log}
	result, err := w.Write(files)
	if err != nil {
		return err
	}

	if result.Snapshot != "" {
		s.ui.Info("Snapshot %s", result.Snapshot)
	}
	for _, c := range result.Changes {
		s.ui.Change(string(c.Status), c.Path)
	}
	if result.Changed() {
		s.ui.Success("Wrote %d document(s) to %s", len(files), root)
	} else {
		s.ui.Success("%s is up to date", root)
	}
	return nil
}

// printDocuments writes rendered documents to stdout. A separator naming
// the output path precedes each one when more than one is printed.
func printDocuments(cmd *cobra.Command, s *session, in job.Input, ids []string) error {
	if len(ids) == 0 {
		ids = job.IDs()
	}

	out := cmd.OutOrStdout()
	for _, id := range ids {
		doc, err := job.Lookup(id)
		if err != nil {
			return err
		}
		content, err := s.job.Render(id, in)
		if err != nil {
			return err
		}
		if len(ids) > 1 {
			if _, err := fmt.Fprintf(out, "--- %s ---\n", s.job.Path(doc)); err != nil {
				return err
			}
		}
		if _, err := out.Write(content); err != nil {
			return err
		}
	}
	return nil
}

// selectFiles keeps the files of the named documents, or all of them when
// none are named.
func selectFiles(files []output.File, ids []string) []output.File {
	if len(ids) == 0 {
		return files
	}
	var selected []output.File
	for _, f := range files {
		if slices.Contains(ids, f.Document) {
			selected = append(selected, f)
		}
	}
	return selected
}
