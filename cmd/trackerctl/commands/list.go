package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored metrics",
		Long:  "List every metric in index order with its type and occurrence count. Run 'validate' to identify missing records.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.openService()
			if err != nil {
				return err
			}

			metrics, err := svc.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list metrics: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(metrics) == 0 {
				fmt.Fprintln(out, "No metrics stored")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tOCCURRENCES")
			for _, metric := range metrics {
				if metric == nil {
					fmt.Fprintln(w, "-\t(missing record)\t-\t-")
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", metric.ID, metric.Name, metric.Type, len(metric.Occurrences))
			}
			return w.Flush()
		},
	}
}
