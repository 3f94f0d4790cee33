package config

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/vk/fragments/internal/fragments"
)

// Template names understood by the renderer.
const (
	TemplatePage  = "page"
	TemplateEntry = "entry"
	TemplateIndex = "index"
)

// DefaultInclude is the glob used when a site names no include patterns.
const DefaultInclude = "implementors/**/*.js"

// Site is the merged configuration of a documentation site.
type Site struct {
	Title string
	// Root is the directory implementor files are searched in.
	Root string
	// Include holds doublestar patterns relative to Root.
	Include []string
	// Output is the directory rendered pages are written to.
	Output     string
	Templates  map[string]*Template
	Vars       map[string]string
	Conditions []string
}

// Template is a template given either by file path or inline source.
type Template struct {
	Name   string
	Path   string
	Source string
}

// NewSite returns an empty Site with its maps allocated.
func NewSite() *Site {
	return &Site{
		Templates: make(map[string]*Template),
		Vars:      make(map[string]string),
	}
}

// Patterns returns the include patterns, or DefaultInclude when none are set.
func (s *Site) Patterns() []string {
	if len(s.Include) == 0 {
		return []string{DefaultInclude}
	}
	return s.Include
}

// Merge overlays other onto s. Non-empty scalars replace, patterns and
// conditions are appended, vars and templates are replaced by key.
func (s *Site) Merge(other *Site) {
	if other == nil {
		return
	}
	if other.Title != "" {
		s.Title = other.Title
	}
	if other.Root != "" {
		s.Root = other.Root
	}
	if other.Output != "" {
		s.Output = other.Output
	}
	s.Include = append(s.Include, other.Include...)
	for _, c := range other.Conditions {
		if !slices.Contains(s.Conditions, c) {
			s.Conditions = append(s.Conditions, c)
		}
	}
	if s.Vars == nil {
		s.Vars = make(map[string]string)
	}
	maps.Copy(s.Vars, other.Vars)
	if s.Templates == nil {
		s.Templates = make(map[string]*Template)
	}
	maps.Copy(s.Templates, other.Templates)
}

// Compile parses the template from its inline source, or from Path when no
// source is given.
func (t *Template) Compile() (*fragments.Template, error) {
	if t.Source != "" {
		tmpl, err := fragments.Parse(t.Source)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", t.Name, err)
		}
		return tmpl, nil
	}
	if t.Path == "" {
		return nil, fmt.Errorf("template %q has neither path nor source", t.Name)
	}

	f, err := os.Open(t.Path)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", t.Name, err)
	}
	defer f.Close()

	tmpl, err := fragments.ParseReader(f)
	if err != nil {
		return nil, fmt.Errorf("template %q from %s: %w", t.Name, t.Path, err)
	}
	return tmpl, nil
}
