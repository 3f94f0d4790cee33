package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"sync"

	"github.com/vk/fragments/internal/config"
	"github.com/vk/fragments/internal/ctxlog"
	"github.com/vk/fragments/internal/docindex"
	"github.com/vk/fragments/internal/fragments"
	"github.com/vk/fragments/internal/implementors"
	"github.com/vk/fragments/internal/livereload"
	"github.com/vk/fragments/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	ctx      context.Context
	config   *Config
	site     *config.Site
	registry *registry.Registry
	index    *docindex.Index
	renderer *docindex.Renderer
	hub      *livereload.Hub

	mu sync.Mutex
	// loaders holds one loader per implementors file, keyed by its path
	// relative to the site root.
	loaders    map[string]*implementors.Loader
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Command output goes
// to outW and logs to logW. It returns a fully initialized App instance,
// including its own isolated logger and registry. Configuration that cannot
// be loaded or compiled is a fatal startup error and panics.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	site := config.NewSite()
	if len(appConfig.ConfigPaths) > 0 {
		loaded, err := loader.Load(ctx, appConfig.ConfigPaths...)
		if err != nil {
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		site = loaded
		logger.Debug("Site configuration loaded.", "paths", appConfig.ConfigPaths)
	}
	site.Merge(appConfig.siteOverrides())
	if site.Root == "" {
		site.Root = "."
	}

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	reg.RegisterModules(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "generators", reg.Names())

	conditions := site.Conditions
	if appConfig.Watch && appConfig.Port > 0 {
		conditions = append(slices.Clone(conditions), "livereload")
	}
	renderer, err := newRenderer(site, conditions, reg)
	if err != nil {
		panic(fmt.Errorf("failed to compile templates: %w", err))
	}

	return &App{
		outW:     outW,
		logger:   logger,
		ctx:      ctx,
		config:   appConfig,
		site:     site,
		registry: reg,
		index:    docindex.New(),
		renderer: renderer,
		hub:      livereload.NewHub(logger),
		loaders:  make(map[string]*implementors.Loader),
	}
}

// siteOverrides converts the site fields given on the command line into a
// Site that can be merged over the loaded one.
func (c *Config) siteOverrides() *config.Site {
	s := config.NewSite()
	s.Title = c.Title
	s.Root = c.Root
	s.Output = c.Output
	s.Include = c.Include
	s.Conditions = c.Conditions
	maps.Copy(s.Vars, c.Vars)
	return s
}

func newRenderer(site *config.Site, conditions []string, reg *registry.Registry) (*docindex.Renderer, error) {
	vars := make(map[string]string, len(site.Vars)+1)
	maps.Copy(vars, site.Vars)
	if site.Title != "" {
		vars["title"] = site.Title
	}

	opts := []docindex.Option{
		docindex.WithGenerators(reg),
		docindex.WithVars(vars),
		docindex.WithConditions(conditions),
	}
	for name, with := range map[string]func(*fragments.Template) docindex.Option{
		config.TemplatePage:  docindex.WithPageTemplate,
		config.TemplateEntry: docindex.WithEntryTemplate,
		config.TemplateIndex: docindex.WithIndexTemplate,
	} {
		src, ok := site.Templates[name]
		if !ok {
			continue
		}
		t, err := src.Compile()
		if err != nil {
			return nil, err
		}
		opts = append(opts, with(t))
	}
	return docindex.NewRenderer(opts...), nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Index returns the application's implementors index.
func (a *App) Index() *docindex.Index {
	return a.index
}

// Site returns the merged site configuration.
func (a *App) Site() *config.Site {
	return a.site
}
