package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/beatjob/internal/output"
)

// maxListed is how many snapshots are listed before the rest are counted.
const maxListed = 10

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List snapshots of the output directory",
	Long: `List snapshots of the output directory, newest first.

Snapshots are taken by 'beatjob render --snapshot' before files are
written, and before a restore.`,
	Args: cobra.NoArgs,
	RunE: runSnapshotsList,
}

var snapshotsRestoreCmd = &cobra.Command{
	Use:   "restore NAME",
	Short: "Restore the output directory from a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotsRestore,
}

func init() {
	addOutputFlag(snapshotsCmd)
	addOutputFlag(snapshotsRestoreCmd)

	snapshotsCmd.AddCommand(snapshotsRestoreCmd)
	rootCmd.AddCommand(snapshotsCmd)
}

func runSnapshotsList(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	root, err := s.outputRoot()
	if err != nil {
		return err
	}

	list, err := output.Snapshots(root).List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		s.ui.Warning("No snapshots found")
		s.ui.Info("Snapshots are created by 'beatjob render --snapshot'")
		return nil
	}

	out := cmd.OutOrStdout()
	for i, snap := range list {
		if i >= maxListed {
			fmt.Fprintf(out, "  ... and %d more\n", len(list)-maxListed)
			break
		}
		fmt.Fprintf(out, "%s\n", snap.Name)
		fmt.Fprintf(out, "  Created: %s\n", snap.Created.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "  Files:   %d\n", snap.FileCount)
	}
	return nil
}

func runSnapshotsRestore(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	root, err := s.outputRoot()
	if err != nil {
		return err
	}

	backup, err := output.Restore(root, args[0])
	if err != nil {
		return err
	}

	s.log.Info("restored snapshot", "name", args[0], "backup", backup)
	if backup != "" {
		s.ui.Info("Previous files saved as %s", backup)
	}
	s.ui.Success("Restored %s", args[0])
	return nil
}
