package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/fragments/internal/ctxlog"
	"github.com/vk/fragments/internal/fsutil"
	"github.com/vk/fragments/internal/implementors"
)

// Build discovers the implementors files of the site, loads every one of
// them into the index and publishes the result once.
func (a *App) Build(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build started.", "root", a.site.Root, "include", a.site.Patterns())

	files, err := fsutil.FindFiles(a.site.Root, a.site.Patterns()...)
	if err != nil {
		return fmt.Errorf("failed to discover implementors files: %w", err)
	}
	if len(files) == 0 {
		logger.Warn("No implementors files found.", "root", a.site.Root)
	}

	for _, rel := range files {
		if err := a.loadPage(ctx, rel); err != nil {
			return err
		}
	}
	logger.Info("Implementors loaded.", "files", len(files), "pages", a.index.Len())

	return a.publish(ctx)
}

// loadPage parses one implementors file and feeds it to the page's loader.
// The first time a page is seen its table is offered before the index
// aggregator is registered, the way a browser runs the page script before
// the page's own loader: the table is parked and replayed on registration.
// Later loads find the loader Ready and dispatch immediately.
func (a *App) loadPage(ctx context.Context, rel string) error {
	trait, err := implementors.TraitFromPath(rel)
	if err != nil {
		return err
	}
	logger := ctxlog.FromContext(ctx).With("file", rel, "trait", trait)

	table, err := readTable(filepath.Join(a.site.Root, filepath.FromSlash(rel)))
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", rel, err)
	}
	logger.Debug("Parsed implementors file.", "crates", table.Len())

	a.mu.Lock()
	loader, seen := a.loaders[rel]
	if !seen {
		loader = implementors.NewLoader()
		a.loaders[rel] = loader
	}
	a.mu.Unlock()

	ctx = ctxlog.WithLogger(ctx, logger)
	loader.Offer(ctx, table)
	if !seen {
		loader.Register(ctx, a.index.Aggregator(ctx, trait, rel))
	}
	return nil
}

func readTable(path string) (*implementors.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return implementors.ParseJS(f)
}
