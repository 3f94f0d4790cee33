package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vk/fragments/internal/ctxlog"
	"github.com/vk/fragments/internal/docindex"
	"gopkg.in/yaml.v3"
)

// publish writes the whole index in the configured format.
func (a *App) publish(ctx context.Context) error {
	switch a.config.Format {
	case FormatJSON:
		enc := json.NewEncoder(a.outW)
		enc.SetIndent("", "  ")
		return enc.Encode(a.index.Export())
	case FormatYAML:
		enc := yaml.NewEncoder(a.outW)
		enc.SetIndent(2)
		if err := enc.Encode(a.index.Export()); err != nil {
			return err
		}
		return enc.Close()
	}

	if a.site.Output == "" {
		if a.config.Port > 0 {
			ctxlog.FromContext(ctx).Debug("No output directory, pages are only served.")
			return nil
		}
		return errors.New("an output directory is required for html builds")
	}
	for _, page := range a.index.Pages() {
		if err := a.writePage(ctx, page); err != nil {
			return err
		}
	}
	return a.writeIndex(ctx)
}

// publishPage refreshes the output for a single page after a change.
func (a *App) publishPage(ctx context.Context, trait string) error {
	if a.config.Format != FormatHTML {
		return a.publish(ctx)
	}
	if a.site.Output == "" {
		return nil
	}
	page, ok := a.index.Page(trait)
	if !ok {
		return fmt.Errorf("page %s not in index", trait)
	}
	if err := a.writePage(ctx, page); err != nil {
		return err
	}
	return a.writeIndex(ctx)
}

// unpublishPage refreshes the output after a page left the index.
func (a *App) unpublishPage(ctx context.Context, trait string) error {
	if a.config.Format != FormatHTML {
		return a.publish(ctx)
	}
	if a.site.Output == "" {
		return nil
	}
	path := filepath.Join(a.site.Output, filepath.FromSlash(docindex.PageFile(trait)))
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove page %s: %w", trait, err)
	}
	ctxlog.FromContext(ctx).Debug("Page file removed.", "trait", trait, "path", path)
	return a.writeIndex(ctx)
}

func (a *App) writePage(ctx context.Context, page docindex.Page) error {
	path := filepath.Join(a.site.Output, filepath.FromSlash(page.File()))
	if err := a.writeFile(path, func(f *os.File) error { return a.renderer.RenderPage(f, page) }); err != nil {
		return fmt.Errorf("failed to write page %s: %w", page.Trait, err)
	}
	ctxlog.FromContext(ctx).Debug("Page written.", "trait", page.Trait, "path", path, "implementors", page.Count())
	return nil
}

func (a *App) writeIndex(ctx context.Context) error {
	path := filepath.Join(a.site.Output, "index.html")
	pages := a.index.Pages()
	if err := a.writeFile(path, func(f *os.File) error { return a.renderer.RenderIndex(f, pages) }); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	ctxlog.FromContext(ctx).Info("Site written.", "output", a.site.Output, "pages", len(pages))
	return nil
}

func (a *App) writeFile(path string, render func(f *os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
