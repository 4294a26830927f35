package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pagecms/searchkit/internal/content"
	"github.com/pagecms/searchkit/internal/search"
	"github.com/pagecms/searchkit/internal/ui"
	"github.com/pagecms/searchkit/internal/watcher"
)

type watchOptions struct {
	index string
	dir   string
}

func newWatchCmd() *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a content directory and keep an index in sync",
		Long: `Watch performs a full index of the content directory, then applies file
changes incrementally: created and modified documents are upserted,
removed files are deleted from the index. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.index, "index", "i", "content", "Target index name")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "Content directory (default from config)")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, opts watchOptions) error {
	out := ui.New(cmd.OutOrStdout())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
			return fmt.Errorf("creating index %q: %v", opts.index, result.Messages)
		}
	}

	dir := opts.dir
	if dir == "" {
		dir = a.cfg.Content.Dir
	}

	builder := content.NewValueSetBuilder(a.schemas[opts.index])
	docIDs := make(map[string]string) // file path -> document id

	docs, err := loadWatched(dir, docIDs)
	if err != nil {
		return err
	}
	a.contents.Put(docs...)
	sets, err := builder.ValueSets(docs)
	if err != nil {
		return err
	}
	if err := idx.IndexValueSets(ctx, sets); err != nil {
		return fmt.Errorf("initial indexing: %w", err)
	}
	out.Successf("Indexed %d documents, watching %s", len(docs), dir)

	w := watcher.New(watcher.WithDebounce(a.cfg.DebounceWindow()))
	batches, err := w.Start(ctx, dir)
	if err != nil {
		return err
	}

	for batch := range batches {
		applyBatch(ctx, out, a, idx, builder, docIDs, batch)
	}
	out.Dimf("watch stopped")
	return nil
}

// loadWatched reads every document under dir and records which file each
// document id came from, so later deletions can be mapped back.
func loadWatched(dir string, docIDs map[string]string) ([]content.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory: %w", err)
	}

	var docs []content.Document
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		doc, err := content.LoadFile(path)
		if err != nil {
			return nil, err
		}
		docIDs[path] = doc.ID
		docs = append(docs, doc)
	}
	return docs, nil
}

// applyBatch maps a coalesced event batch to index upserts and removals.
func applyBatch(ctx context.Context, out *ui.Output, a *app, idx search.Index,
	builder *content.ValueSetBuilder, docIDs map[string]string, batch []watcher.Event) {

	var (
		upserts []content.Document
		removes []string
	)
	for _, ev := range batch {
		switch ev.Operation {
		case watcher.OpUpsert:
			doc, err := content.LoadFile(ev.Path)
			if err != nil {
				out.Warnf("skipping %s: %v", ev.Path, err)
				continue
			}
			docIDs[ev.Path] = doc.ID
			upserts = append(upserts, doc)
		case watcher.OpDelete:
			id, ok := docIDs[ev.Path]
			if !ok {
				continue
			}
			delete(docIDs, ev.Path)
			removes = append(removes, id)
		}
	}

	if len(upserts) > 0 {
		a.contents.Put(upserts...)
		sets, err := builder.ValueSets(upserts)
		if err != nil {
			out.Errorf("building value sets: %v", err)
		} else if err := idx.IndexValueSets(ctx, sets); err != nil {
			out.Errorf("upserting %d documents: %v", len(upserts), err)
		} else {
			out.Successf("upserted %d documents", len(upserts))
		}
	}
	if len(removes) > 0 {
		for _, id := range removes {
			a.contents.Remove(id)
		}
		if err := idx.Remove(ctx, removes); err != nil {
			out.Errorf("removing %d documents: %v", len(removes), err)
		} else {
			out.Successf("removed %d documents", len(removes))
		}
	}
}
