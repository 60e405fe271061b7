package commands

import (
	"fmt"
	"os"

	"github.com/benvon/metric-tracker/internal/logger"
	"github.com/benvon/metric-tracker/internal/services/tracker"
	"github.com/benvon/metric-tracker/internal/store"
	"github.com/benvon/metric-tracker/internal/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options are the flags shared by every subcommand
type options struct {
	dataDir string
	verbose bool
}

// NewRootCmd creates the trackerctl command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "trackerctl",
		Short:         "Administration tool for the metric tracker",
		Long:          "Inspect and validate the metric tracker's data directory without going through the HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultDir := os.Getenv("DATA_DIR")
	if defaultDir == "" {
		defaultDir = "data"
	}
	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", defaultDir, "Data directory (defaults to $DATA_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log service events to stderr")

	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newShowCmd(opts))
	rootCmd.AddCommand(newLogCmd(opts))
	rootCmd.AddCommand(newValidateCmd(opts))
	rootCmd.AddCommand(newTypesCmd())

	return rootCmd
}

// openService builds a metric service over the file store in the data directory
func (o *options) openService() (*tracker.Service, error) {
	log := zap.NewNop()
	if o.verbose {
		l, err := logger.NewDevelopmentLogger(false)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		log = l
	}

	if _, err := os.Stat(o.dataDir); err != nil {
		return nil, fmt.Errorf("data directory %s: %w", o.dataDir, err)
	}
	fs, err := store.NewFileStore(o.dataDir, log)
	if err != nil {
		return nil, err
	}

	validator := validation.NewValidator(validation.DefaultCatalog(), log)
	return tracker.NewService(fs, validator, log), nil
}
