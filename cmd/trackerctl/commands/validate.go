package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errAuditFailed makes the command exit non-zero once the report is printed
var errAuditFailed = errors.New("stored metrics failed validation")

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Re-validate every stored metric",
		Long:  "Check every stored metric and its occurrence history against the current type rules and report index entries whose record is missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.openService()
			if err != nil {
				return err
			}

			report, err := svc.Audit(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to audit metrics: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Checked %d metrics\n", report.Checked)
			for _, entry := range report.Invalid {
				fmt.Fprintf(out, "  invalid: %s %s (%s)\n", entry.ID, entry.Name, entry.Type)
			}
			for _, entry := range report.Missing {
				fmt.Fprintf(out, "  missing record: %s %s (%s)\n", entry.ID, entry.Name, entry.Type)
			}

			if !report.OK() {
				return errAuditFailed
			}
			fmt.Fprintln(out, "All metrics are valid")
			return nil
		},
	}
}
