// Package docindex is the consuming side of implementor tables: it merges
// the tables of every page into an in-memory index and renders pages from
// it with fragments templates.
package docindex

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/vk/fragments/internal/ctxlog"
	"github.com/vk/fragments/internal/implementors"
)

// CrateEntries holds the implementors contributed by one crate.
type CrateEntries struct {
	Crate   string  `json:"crate" yaml:"crate"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Page is the merged implementor list of one trait.
type Page struct {
	Trait  string         `json:"trait" yaml:"trait"`
	Source string         `json:"source,omitempty" yaml:"source,omitempty"`
	Crates []CrateEntries `json:"crates" yaml:"crates"`
}

// Count returns the number of entries over all crates.
func (p Page) Count() int {
	n := 0
	for _, c := range p.Crates {
		n += len(c.Entries)
	}
	return n
}

// CountBy returns the number of entries with the given stability level.
func (p Page) CountBy(stability string) int {
	n := 0
	for _, c := range p.Crates {
		for _, e := range c.Entries {
			if e.Stability == stability {
				n++
			}
		}
	}
	return n
}

// File returns the page's output path relative to the site root:
// "core::iter::Extend" becomes "core/iter/trait.Extend.html".
func (p Page) File() string {
	return PageFile(p.Trait)
}

// PageFile maps a trait path to its output file.
func PageFile(trait string) string {
	parts := strings.Split(trait, "::")
	last := len(parts) - 1
	parts[last] = "trait." + parts[last] + ".html"
	return strings.Join(parts, "/")
}

func (p Page) clone() Page {
	c := p
	c.Crates = make([]CrateEntries, len(p.Crates))
	for i, ce := range p.Crates {
		c.Crates[i] = CrateEntries{Crate: ce.Crate, Entries: slices.Clone(ce.Entries)}
	}
	return c
}

// Index is the set of pages built from implementor tables. It is safe for
// concurrent use.
type Index struct {
	mu    sync.RWMutex
	pages map[string]*Page
}

// New returns an empty Index.
func New() *Index {
	return &Index{pages: make(map[string]*Page)}
}

// Aggregator returns an implementors.Aggregator that stores every table it
// receives as the page for trait.
func (ix *Index) Aggregator(ctx context.Context, trait, source string) implementors.Aggregator {
	return func(t *implementors.Table) {
		ix.Store(ctx, trait, source, t)
	}
}

// Store makes t the implementor list of the page for trait. A table is the
// page's full list, so crates missing from t are dropped and the crates
// take t's order.
func (ix *Index) Store(ctx context.Context, trait, source string, t *implementors.Table) {
	logger := ctxlog.FromContext(ctx)

	crates := make([]CrateEntries, 0, t.Len())
	for _, c := range t.Crates() {
		entries := make([]Entry, 0, len(c.Entries))
		for _, raw := range c.Entries {
			entries = append(entries, ParseEntry(raw))
		}
		crates = append(crates, CrateEntries{Crate: c.Name, Entries: entries})
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	page, ok := ix.pages[trait]
	if !ok {
		page = &Page{Trait: trait}
		ix.pages[trait] = page
	}
	if source != "" {
		page.Source = source
	}
	page.Crates = crates

	logger.Debug("Stored implementor table for page.", "trait", trait, "crates", len(crates), "entries", page.Count())
}

// Remove drops the page for trait and reports whether it existed.
func (ix *Index) Remove(ctx context.Context, trait string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.pages[trait]; !ok {
		return false
	}
	delete(ix.pages, trait)
	ctxlog.FromContext(ctx).Debug("Removed page.", "trait", trait)
	return true
}

// Page returns a copy of the page for trait.
func (ix *Index) Page(trait string) (Page, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	p, ok := ix.pages[trait]
	if !ok {
		return Page{}, false
	}
	return p.clone(), true
}

// Pages returns copies of all pages sorted by trait.
func (ix *Index) Pages() []Page {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]Page, 0, len(ix.pages))
	for _, p := range ix.pages {
		out = append(out, p.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Trait < out[j].Trait })
	return out
}

// Len returns the number of pages.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.pages)
}

// Export is the serialisable form of an Index.
type Export struct {
	Pages []Page `json:"pages" yaml:"pages"`
}

// Export snapshots the index for JSON or YAML encoding.
func (ix *Index) Export() Export {
	return Export{Pages: ix.Pages()}
}
