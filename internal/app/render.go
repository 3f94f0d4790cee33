package app

import (
	"context"
	"fmt"

	"github.com/vk/fragments/internal/config"
	"github.com/vk/fragments/internal/ctxlog"
)

// Render renders the single template named by the configuration to the
// output writer. Site vars and conditions apply, with the title inserted
// under "title", and every registered generator is available.
func (a *App) Render(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Rendering template.", "path", a.config.TemplatePath)

	tmpl, err := (&config.Template{Name: "render", Path: a.config.TemplatePath}).Compile()
	if err != nil {
		return err
	}

	a.registry.Install(tmpl)
	if a.site.Title != "" {
		tmpl.Insert("title", a.site.Title)
	}
	for k, v := range a.site.Vars {
		tmpl.Insert(k, v)
	}
	for _, c := range a.site.Conditions {
		tmpl.Set(c, true)
	}

	if err := tmpl.Render(a.outW); err != nil {
		return fmt.Errorf("failed to render %s: %w", a.config.TemplatePath, err)
	}
	logger.Debug("Template rendered.", "labels", tmpl.Labels())
	return nil
}
