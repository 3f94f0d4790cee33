package docindex

import (
	"io"
	"slices"
	"strings"

	"github.com/vk/fragments/internal/fragments"
	"golang.org/x/net/html"
)

const liveReloadScript = `[[?livereload]]<script>new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/events").onmessage = function (e) { if (JSON.parse(e.data).type === "reload") location.reload(); };</script>
[[/]]`

// DefaultPageTemplate renders one trait page. It receives the placeholders
// trait, source, count, crates and unstable (count and unstable only when
// non-zero) and the implementors generator, which takes an optional list of
// crate names to restrict the output to. The livereload condition adds the
// script that reloads the page on change.
const DefaultPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>[[:trait]][[?:title]] - [[:title]][[/]]</title>
</head>
<body>
<h1>Trait [[:trait]]</h1>
[[?!:count]]<p>No known implementors.</p>
[[/]][[?:count]]<h2 id="implementors">Implementors ([[:count]])</h2>
<ul class="item-list" id="implementors-list">
[[+implementors]]</ul>
[[/]][[?:unstable]]<p class="stab">[[:unstable]] unstable implementations.</p>
[[/]]` + liveReloadScript + `</body>
</html>
`

// DefaultEntryTemplate renders one implementor line. It receives the
// placeholders crate, html, text, stability and note, and the lower-cased
// stability level as a condition.
const DefaultEntryTemplate = `<li class="impl[[?deprecated]] deprecated[[/]]"><code>[[:html]]</code>[[?:note]] <span class="stab [[:stability]]">[[:note]]</span>[[/]]</li>
`

// DefaultIndexTemplate renders the list of pages through the pages generator.
const DefaultIndexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>[[?:title]][[:title]] - [[/]]Implementors</title>
</head>
<body>
<h1>Implementors</h1>
<ul>
[[+pages]]</ul>
` + liveReloadScript + `</body>
</html>
`

const indexItemTemplate = `<li><a href="[[:href]]">[[:trait]]</a> ([[:count]])</li>
`

// GeneratorSet installs named generators into a template.
type GeneratorSet interface {
	Install(t *fragments.Template)
}

// Renderer turns pages into HTML. Templates are cloned per render, so a
// Renderer may be shared between goroutines once built.
type Renderer struct {
	page       *fragments.Template
	entry      *fragments.Template
	index      *fragments.Template
	item       *fragments.Template
	generators GeneratorSet
	vars       map[string]string
	conditions []string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPageTemplate replaces DefaultPageTemplate.
func WithPageTemplate(t *fragments.Template) Option {
	return func(r *Renderer) { r.page = t }
}

// WithEntryTemplate replaces DefaultEntryTemplate.
func WithEntryTemplate(t *fragments.Template) Option {
	return func(r *Renderer) { r.entry = t }
}

// WithIndexTemplate replaces DefaultIndexTemplate.
func WithIndexTemplate(t *fragments.Template) Option {
	return func(r *Renderer) { r.index = t }
}

// WithGenerators makes the generators of gs available to every template.
func WithGenerators(gs GeneratorSet) Option {
	return func(r *Renderer) { r.generators = gs }
}

// WithVars inserts vars as placeholder content into every template.
func WithVars(vars map[string]string) Option {
	return func(r *Renderer) { r.vars = vars }
}

// WithConditions sets the named conditions in every template.
func WithConditions(conditions []string) Option {
	return func(r *Renderer) { r.conditions = conditions }
}

// NewRenderer returns a Renderer using the default templates unless
// replaced by opts.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		page:  fragments.MustParse(DefaultPageTemplate),
		entry: fragments.MustParse(DefaultEntryTemplate),
		index: fragments.MustParse(DefaultIndexTemplate),
		item:  fragments.MustParse(indexItemTemplate),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) prepare(base *fragments.Template) *fragments.Template {
	t := base.Clone()
	if r.generators != nil {
		r.generators.Install(t)
	}
	for k, v := range r.vars {
		t.Insert(k, v)
	}
	for _, c := range r.conditions {
		t.Set(c, true)
	}
	return t
}

// RenderPage writes the page for p.
func (r *Renderer) RenderPage(w io.Writer, p Page) error {
	t := r.prepare(r.page)
	t.Insert("trait", html.EscapeString(p.Trait))
	t.Insert("crates", len(p.Crates))
	if p.Source != "" {
		t.Insert("source", html.EscapeString(p.Source))
	}
	if n := p.Count(); n > 0 {
		t.Insert("count", n)
	}
	if n := p.CountBy(Unstable); n > 0 {
		t.Insert("unstable", n)
	}
	t.InsertGenerator("implementors", fragments.GeneratorFunc(func(w io.Writer, crates []string) error {
		return r.renderEntries(w, p, crates)
	}))
	return t.Render(w)
}

func (r *Renderer) renderEntries(w io.Writer, p Page, only []string) error {
	for _, c := range p.Crates {
		if len(only) > 0 && !slices.Contains(only, c.Crate) {
			continue
		}
		for _, e := range c.Entries {
			t := r.prepare(r.entry)
			t.Insert("crate", html.EscapeString(c.Crate))
			t.Insert("html", e.HTML)
			t.Insert("text", html.EscapeString(e.Text))
			if e.Stability != "" {
				level := strings.ToLower(e.Stability)
				t.Insert("stability", level)
				t.Set(level, true)
			}
			if e.Note != "" {
				t.Insert("note", html.EscapeString(e.Note))
			}
			if err := t.Render(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderIndex writes the list of pages, linking each to its File.
func (r *Renderer) RenderIndex(w io.Writer, pages []Page) error {
	t := r.prepare(r.index)
	t.InsertGenerator("pages", fragments.GeneratorFunc(func(w io.Writer, _ []string) error {
		for _, p := range pages {
			item := r.item.Clone()
			item.Insert("href", html.EscapeString(p.File()))
			item.Insert("trait", html.EscapeString(p.Trait))
			item.Insert("count", p.Count())
			if err := item.Render(w); err != nil {
				return err
			}
		}
		return nil
	}))
	return t.Render(w)
}

