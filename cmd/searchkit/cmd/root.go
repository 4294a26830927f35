// Package cmd provides the CLI commands for searchkit.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagecms/searchkit/internal/logging"
	"github.com/pagecms/searchkit/pkg/version"
)

var (
	configPath     string
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the searchkit CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "searchkit",
		Short: "Content indexing and delivery search for headless CMS content",
		Long: `searchkit indexes flattened content documents into embedded full-text
indexes and answers delivery queries: free-text search, structured
filters with type-aware comparisons, multi-key sorting, culture
fallback and protected-content gating.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "info"
			if debugMode {
				level = "debug"
			}
			cleanup, err := logging.SetupDefault(level, "")
			if err != nil {
				return fmt.Errorf("setting up logging: %w", err)
			}
			loggingCleanup = cleanup
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if loggingCleanup != nil {
				loggingCleanup()
			}
		},
	}

	cmd.SetVersionTemplate("searchkit version {{.Version}}\n")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to searchkit.yaml")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		newInitCmd(),
		newIndexCmd(),
		newSearchCmd(),
		newStatusCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
