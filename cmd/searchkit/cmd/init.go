package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagecms/searchkit/configs"
	"github.com/pagecms/searchkit/internal/config"
	"github.com/pagecms/searchkit/internal/ui"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter searchkit.yaml into the working directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := ui.New(cmd.OutOrStdout())

			path := configPath
			if path == "" {
				path = config.DefaultFileName
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := os.WriteFile(path, []byte(configs.ConfigTemplate), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			out.Successf("Wrote %s", path)
			out.Dimf("Edit the index fields, then run: searchkit index")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
