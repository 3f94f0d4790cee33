package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/vk/fragments/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

const usageText = `
fragments - render rustdoc implementor lists through fragment templates.

Usage:
  fragments [build] [options] [ROOT]
  fragments render [options] TEMPLATE

Commands:
  build    Index the implementors files under ROOT and write the pages
           (default).
  render   Render a single template file to standard output.

Arguments:
  ROOT      Documentation root holding the implementors/ directory.
  TEMPLATE  Path to a template file.

Environment:
  FRAGMENTS_CONFIG, FRAGMENTS_ROOT, FRAGMENTS_OUTPUT, FRAGMENTS_PORT,
  FRAGMENTS_LOG_FORMAT and FRAGMENTS_LOG_LEVEL set the defaults of the
  matching options.

Options:
`

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	command := app.CommandBuild
	if len(args) > 0 && (args[0] == app.CommandBuild || args[0] == app.CommandRender) {
		command, args = args[0], args[1:]
	}

	flagSet := flag.NewFlagSet("fragments", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usageText)
		flagSet.PrintDefaults()
	}

	defaults, err := parseEnv()
	if err != nil {
		return nil, false, usageError("%v", err)
	}

	var (
		configPaths []string
		vars        []string
		conditions  []string
		include     []string
	)
	flagSet.StringArrayVarP(&configPaths, "config", "c", defaults.ConfigPaths, "Site configuration file or directory of .hcl files. Repeatable.")
	title := flagSet.String("title", "", "Site title, available to templates as [[:title]].")
	flagSet.StringArrayVar(&vars, "var", nil, "Template variable as key=value. Repeatable.")
	flagSet.StringArrayVar(&conditions, "set", nil, "Condition to set in templates. Repeatable.")
	root := flagSet.StringP("root", "r", defaults.Root, "Documentation root (build).")
	flagSet.StringArrayVarP(&include, "include", "i", nil, "Glob of implementors files relative to the root (build). Repeatable.")
	outputDir := flagSet.StringP("output", "o", defaults.Output, "Directory for html pages (build).")
	format := flagSet.StringP("format", "f", app.FormatHTML, "Build output: 'html', 'json' or 'yaml'.")
	watch := flagSet.BoolP("watch", "w", false, "Keep running and reload implementors files as they change (build).")
	port := flagSet.Int("port", defaults.Port, "Serve the index over HTTP on this port. 0 is disabled (build).")
	templatePath := flagSet.StringP("template", "t", "", "Template file (render).")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.", "command", command)

	if flagSet.NArg() > 1 {
		return nil, false, usageError("unexpected arguments: %s", strings.Join(flagSet.Args()[1:], " "))
	}
	if flagSet.NArg() == 1 {
		switch {
		case command == app.CommandRender && *templatePath == "":
			*templatePath = flagSet.Arg(0)
		case command == app.CommandBuild && !flagSet.Changed("root"):
			*root = flagSet.Arg(0)
		default:
			return nil, false, usageError("unexpected argument: %s", flagSet.Arg(0))
		}
	}

	if command == app.CommandRender && *templatePath == "" {
		slog.Debug("No template given, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if !slices.Contains(app.LogFormats, logFormat) {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}
	logLevel := strings.ToLower(*logLevelFlag)
	if !slices.Contains(app.LogLevels, logLevel) {
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	varMap, err := parseVars(vars)
	if err != nil {
		return nil, false, err
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Command:      command,
		ConfigPaths:  configPaths,
		Root:         *root,
		Include:      include,
		Output:       *outputDir,
		Title:        *title,
		Vars:         varMap,
		Conditions:   conditions,
		Format:       strings.ToLower(*format),
		TemplatePath: *templatePath,
		Watch:        *watch,
		Port:         *port,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// parseVars splits key=value pairs. Later pairs win.
func parseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, usageError("invalid --var %q: expected key=value", p)
		}
		vars[k] = v
	}
	return vars, nil
}
