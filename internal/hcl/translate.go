// This file contains the logic for translating HCL schema structs into the
// format-agnostic site model defined in the config package.

package hcl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/fragments/internal/config"
	"github.com/vk/fragments/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

var knownTemplates = map[string]bool{
	config.TemplatePage:  true,
	config.TemplateEntry: true,
	config.TemplateIndex: true,
}

// translateSite converts a decoded site block into the agnostic model.
// Relative paths are resolved against dir, the directory of the file the
// block came from.
func translateSite(ctx context.Context, b *siteBlock, dir string, evalCtx *hcl.EvalContext) (*config.Site, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Translating HCL site block.", "dir", dir)

	s := config.NewSite()
	if b.Title != nil {
		s.Title = *b.Title
	}
	if b.Root != nil {
		s.Root = resolve(dir, *b.Root)
	}
	if b.Output != nil {
		s.Output = resolve(dir, *b.Output)
	}
	s.Include = b.Include
	s.Conditions = b.Conditions

	vars, err := decodeVars(b.Vars, evalCtx)
	if err != nil {
		return nil, err
	}
	s.Vars = vars

	for _, tb := range b.Templates {
		if !knownTemplates[tb.Name] {
			return nil, fmt.Errorf("unknown template %q, expected one of page, entry, index", tb.Name)
		}
		if _, dup := s.Templates[tb.Name]; dup {
			return nil, fmt.Errorf("template %q is defined more than once", tb.Name)
		}
		t := &config.Template{Name: tb.Name}
		if tb.Path != nil {
			t.Path = resolve(dir, *tb.Path)
		}
		if tb.Source != nil {
			t.Source = *tb.Source
		}
		if t.Path == "" && t.Source == "" {
			return nil, fmt.Errorf("template %q needs a path or a source", tb.Name)
		}
		logger.Debug("Translated template.", "name", t.Name, "path", t.Path, "inline", t.Source != "")
		s.Templates[tb.Name] = t
	}
	return s, nil
}

// decodeVars evaluates the vars expression, which must be an object or map,
// and converts every element to a string.
func decodeVars(expr hcl.Expression, evalCtx *hcl.EvalContext) (map[string]string, error) {
	vars := make(map[string]string)
	if expr == nil {
		return vars, nil
	}

	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate vars: %w", diags)
	}
	if val.IsNull() {
		return vars, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("vars must be known at load time")
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("vars must be an object, got %s", ty.FriendlyName())
	}

	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		name := k.AsString()
		if v.IsNull() {
			return nil, fmt.Errorf("var %q is null", name)
		}
		s, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("var %q: %w", name, err)
		}
		vars[name] = s.AsString()
	}
	return vars, nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
