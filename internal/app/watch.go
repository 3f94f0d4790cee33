package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/fragments/internal/ctxlog"
	"github.com/vk/fragments/internal/fsutil"
	"github.com/vk/fragments/internal/implementors"
)

// Watch reloads implementors files under the site root as they change and
// republishes the affected pages. It blocks until ctx is cancelled.
func (a *App) Watch(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := addTree(w, a.site.Root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", a.site.Root, err)
	}
	logger.Info("Watching for changes.", "root", a.site.Root, "include", a.site.Patterns())

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Watcher stopped.")
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			logger.Debug("File event.", "path", event.Name, "op", event.Op.String())
			a.handleEvent(ctx, w, event)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error.", "error", err)
		}
	}
}

func (a *App) handleEvent(ctx context.Context, w *fsnotify.Watcher, event fsnotify.Event) {
	logger := ctxlog.FromContext(ctx)

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		// A rename also shows up as a Create under the new name.
		rel, ok := a.watchedPath(event.Name)
		if !ok {
			return
		}
		if err := a.drop(ctx, rel); err != nil {
			logger.Error("Removing page failed.", "file", rel, "error", err)
		}
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if err := addTree(w, event.Name); err != nil {
			logger.Warn("Failed to watch new directory.", "path", event.Name, "error", err)
		}
		return
	}

	rel, ok := a.watchedPath(event.Name)
	if !ok {
		return
	}
	if err := a.reload(ctx, rel); err != nil {
		logger.Error("Reload failed.", "file", rel, "error", err)
	}
}

// watchedPath returns name relative to the site root when it matches the
// include patterns.
func (a *App) watchedPath(name string) (string, bool) {
	rel, err := filepath.Rel(a.site.Root, name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if !fsutil.Match(rel, a.site.Patterns()...) {
		return "", false
	}
	return rel, true
}

// reload feeds a changed file to its page loader and republishes the page.
func (a *App) reload(ctx context.Context, rel string) error {
	if err := a.loadPage(ctx, rel); err != nil {
		return err
	}
	trait, err := implementors.TraitFromPath(rel)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("Page reloaded.", "file", rel, "trait", trait)
	if err := a.publishPage(ctx, trait); err != nil {
		return err
	}
	a.hub.Broadcast(trait)
	return nil
}

// drop forgets a removed implementors file: its loader, its page and its
// published output.
func (a *App) drop(ctx context.Context, rel string) error {
	trait, err := implementors.TraitFromPath(rel)
	if err != nil {
		return err
	}

	a.mu.Lock()
	delete(a.loaders, rel)
	a.mu.Unlock()

	if !a.index.Remove(ctx, trait) {
		return nil
	}
	ctxlog.FromContext(ctx).Info("Page removed.", "file", rel, "trait", trait)
	if err := a.unpublishPage(ctx, trait); err != nil {
		return err
	}
	a.hub.Broadcast(trait)
	return nil
}

// addTree watches root and every directory below it.
func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
