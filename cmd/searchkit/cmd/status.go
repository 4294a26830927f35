package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagecms/searchkit/internal/ui"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show index registry health and diagnostics",
		Long: `Status lists every registered index with its engine, document count and
field names, and flags indexes failing health checks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), cmd)
		},
	}
}

func runStatus(ctx context.Context, cmd *cobra.Command) error {
	out := ui.New(cmd.OutOrStdout())

	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	unhealthy := a.provider.UnhealthyIndexes(ctx)
	sick := make(map[string]bool, len(unhealthy))
	for _, name := range unhealthy {
		sick[name] = true
	}

	out.Header("Indexes")
	for _, name := range a.provider.IndexNames() {
		idx, ok := a.provider.Index(name)
		if !ok {
			continue
		}

		engine := idx.Engine()
		out.Printf("%s (%s %s)\n", name, engine.Name, engine.Version)

		switch {
		case sick[name]:
			out.Warnf("  unhealthy")
		case !idx.Exists():
			out.Dimf("  not created")
		default:
			count, err := idx.DocumentCount()
			if err != nil {
				out.Warnf("  document count failed: %v", err)
				continue
			}
			out.Successf("  %d documents", count)
			fields, err := idx.FieldNames()
			if err == nil && len(fields) > 0 {
				out.Dimf("  fields: %s", strings.Join(fields, ", "))
			}
		}
	}

	if len(unhealthy) > 0 {
		out.Printf("\n")
		out.Errorf("%d unhealthy: %s", len(unhealthy), strings.Join(unhealthy, ", "))
		return fmt.Errorf("%d of %d indexes unhealthy", len(unhealthy), len(a.provider.IndexNames()))
	}
	return nil
}
