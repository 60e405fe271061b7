package commands

import (
	"encoding/json"
	"fmt"

	"github.com/benvon/metric-tracker/internal/models"
	"github.com/spf13/cobra"
)

func newLogCmd(opts *options) *cobra.Command {
	var (
		payload string
		index   int
	)

	cmd := &cobra.Command{
		Use:   "log <id>",
		Short: "Record an occurrence against a metric",
		Long: "Append an occurrence given as a JSON document. An occurrence without a date is stamped with the current time.\n" +
			"With --index the occurrence at that position is replaced instead.",
		Example: `  trackerctl log 6f1c... --data '{"exercises":[{"name":"Run","category":"cardio","timeSpent":30}]}'
  trackerctl log 6f1c... --index 0 --data '{"date":"2024-05-01T07:00:00Z"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !json.Valid([]byte(payload)) {
				return fmt.Errorf("--data must be a JSON document")
			}

			svc, err := opts.openService()
			if err != nil {
				return err
			}

			occurrence := models.Occurrence(payload)
			ctx := cmd.Context()

			var metric *models.Metric
			if cmd.Flags().Changed("index") {
				metric, err = svc.EditOccurrence(ctx, args[0], index, occurrence)
			} else {
				metric, err = svc.LogOccurrence(ctx, args[0], occurrence)
			}
			if err != nil {
				return err
			}

			position := len(metric.Occurrences) - 1
			if cmd.Flags().Changed("index") {
				position = index
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded occurrence %d on %s (%s)\n", position, metric.Name, metric.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&payload, "data", "", "Occurrence as JSON")
	cmd.Flags().IntVar(&index, "index", 0, "Replace the occurrence at this position")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
