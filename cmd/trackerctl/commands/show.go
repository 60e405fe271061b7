package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newShowCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one metric with its occurrence history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "json" {
				return fmt.Errorf("--output must be yaml or json, got %q", format)
			}

			svc, err := opts.openService()
			if err != nil {
				return err
			}

			metric, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load metric: %w", err)
			}
			if metric == nil {
				return fmt.Errorf("metric %s not found", args[0])
			}

			// round trip through JSON so occurrences render as documents rather than bytes
			raw, err := json.Marshal(metric)
			if err != nil {
				return fmt.Errorf("failed to encode metric: %w", err)
			}
			var doc map[string]any
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("failed to encode metric: %w", err)
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("failed to encode metric: %w", err)
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "yaml", "Output format: yaml or json")
	return cmd
}
