package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/beatjob/internal/job"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List the documents the job renders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := job.Default()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DOCUMENT\tFORMAT\tPATH")
		fmt.Fprintln(w, "--------\t------\t----")
		for _, id := range job.IDs() {
			doc, err := job.Lookup(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", doc.ID, doc.Format, j.Path(doc))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(documentsCmd)
}
