package commands

import (
	"fmt"
	"strings"

	"github.com/benvon/metric-tracker/internal/validation"
	"github.com/spf13/cobra"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "Describe the supported metric types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, info := range validation.DefaultCatalog().Describe() {
				fmt.Fprintf(out, "%s\n  %s\n", info.Type, info.Description)
				if len(info.Fields) > 0 {
					fmt.Fprintf(out, "  fields: %s\n", strings.Join(info.Fields, ", "))
				}
				fmt.Fprintf(out, "  occurrence fields: %s\n", strings.Join(info.OccurrenceFields, ", "))
			}
			return nil
		},
	}
}
