package app

import (
	"errors"
	"fmt"
)

// Commands understood by App.Run.
const (
	CommandBuild  = "build"
	CommandRender = "render"
)

// Output formats of the build command.
const (
	FormatHTML = "html"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds all the necessary configuration for an App instance to run.
// Site fields set here override those loaded from ConfigPaths.
type Config struct {
	Command     string
	ConfigPaths []string // hcl files or directories

	Root       string
	Include    []string
	Output     string
	Title      string
	Vars       map[string]string
	Conditions []string

	Format       string
	TemplatePath string // render only
	Watch        bool
	Port         int

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case "":
		cfg.Command = CommandBuild
	case CommandBuild, CommandRender:
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}

	switch cfg.Format {
	case "":
		cfg.Format = FormatHTML
	case FormatHTML, FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("invalid format %q: must be 'html', 'json' or 'yaml'", cfg.Format)
	}

	if cfg.Command == CommandRender {
		if cfg.TemplatePath == "" {
			return nil, errors.New("render requires a template path")
		}
		if cfg.Watch || cfg.Port > 0 {
			return nil, errors.New("watch and port apply to build only")
		}
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}

	return &cfg, nil
}

// keepsRunning reports whether the build stays alive after the first
// publish.
func (c *Config) keepsRunning() bool {
	return c.Watch || c.Port > 0
}
