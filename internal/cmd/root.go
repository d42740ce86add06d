// Package cmd provides the CLI commands for beatjob.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/beatjob/internal/logger"
	"github.com/cameronsjo/beatjob/internal/ui"
)

const version = "0.1.0"

const (
	verboseFlag   = "verbose"
	logFormatFlag = "log-format"
	noColorFlag   = "no-color"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "beatjob",
	Short: "Render metricbeat job configuration",
	Long: `beatjob - metricbeat job configuration renderer

Renders the configuration files of the metricbeat job from deployment
properties, links to other jobs and the instance being configured.

DOCUMENTS
  metricbeat.yml        Main metricbeat configuration
  kafka                 modules.d/kafka.yml.disabled
  zookeeper             modules.d/zookeeper.yml.disabled
  redis                 modules.d/redis.yml.disabled
  ilm-policy            metricbeat_ilm_policy.json

COMMANDS
  render [doc...]       Print documents, or write them with --output
    --diff, -d          Show what writing would change
    --snapshot          Back up the output directory before writing
  documents             List documents and their output paths
  validate              Render everything and report problems
  snapshots             List output snapshots
  snapshots restore     Restore an output snapshot

Settings may be kept in a beatjob.yml found in the working directory or
any parent.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// versionCmd prints the version the same way --version does.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the beatjob version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "beatjob version %s\n", version)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().CountP(verboseFlag, "v", "Log verbosity (-v debug, -vv trace)")
	rootCmd.PersistentFlags().String(logFormatFlag, logger.TextFormat, "Log format (text or json)")
	rootCmd.PersistentFlags().Bool(noColorFlag, false, "Disable colored output")
	rootCmd.SetVersionTemplate("beatjob version {{.Version}}\n")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printer(rootCmd).Error("%v", err)
		os.Exit(1)
	}
}

// newLogger builds the logger selected by the persistent flags. Logs go to
// the command's error stream.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	verbosity, err := cmd.Flags().GetCount(verboseFlag)
	if err != nil {
		return nil, flagError(err, verboseFlag)
	}
	format, err := cmd.Flags().GetString(logFormatFlag)
	if err != nil {
		return nil, flagError(err, logFormatFlag)
	}
	return logger.New(logger.Options{
		Verbosity: verbosity,
		Format:    format,
		Out:       cmd.ErrOrStderr(),
	})
}

// printer writes status output to the command's error stream so stdout
// carries only documents.
func printer(cmd *cobra.Command) *ui.Printer {
	if noColor, _ := cmd.Flags().GetBool(noColorFlag); noColor {
		return ui.NewWithColor(cmd.ErrOrStderr(), false)
	}
	return ui.New(cmd.ErrOrStderr())
}

func flagError(err error, name string) error {
	return fmt.Errorf("read --%s flag: %w", name, err)
}
