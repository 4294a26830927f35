package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagecms/searchkit/internal/content"
	"github.com/pagecms/searchkit/internal/ui"
)

type indexOptions struct {
	index string
	dir   string
}

func newIndexCmd() *cobra.Command {
	var opts indexOptions

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index content documents into a named index",
		Long: `Index reads JSON content documents, flattens them into value sets and
upserts them into the named index.

Examples:
  searchkit index
  searchkit index --index content --dir ./content`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.index, "index", "i", "content", "Target index name")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "Content directory (default from config)")

	return cmd
}

func runIndex(ctx context.Context, cmd *cobra.Command, opts indexOptions) error {
	out := ui.New(cmd.OutOrStdout())

	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.close()

	idx, ok := a.provider.Index(opts.index)
	if !ok {
		return fmt.Errorf("no index named %q; defined indexes: %v", opts.index, a.provider.IndexNames())
	}
	if !idx.Exists() {
		if result := a.provider.CreateIndex(opts.index); !result.Success {
			for _, msg := range result.Messages {
				out.Errorf("%s", msg)
			}
			return fmt.Errorf("creating index %q failed", opts.index)
		}
	}

	docs, err := a.loadContent(opts.dir)
	if err != nil {
		return err
	}

	builder := content.NewValueSetBuilder(a.schemas[opts.index])
	sets, err := builder.ValueSets(docs)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := idx.IndexValueSets(ctx, sets); err != nil {
		return fmt.Errorf("indexing into %q: %w", opts.index, err)
	}

	count, _ := idx.DocumentCount()
	out.Successf("Indexed %d documents into %q in %s (total: %d)",
		len(sets), opts.index, time.Since(start).Round(time.Millisecond), count)
	return nil
}
