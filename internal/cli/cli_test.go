package cli

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fragments/internal/app"
)

func TestParse_Build(t *testing.T) {
	// --- Arrange ---
	args := []string{
		"build", "-c", "site.hcl", "--config", "more/",
		"--title", "core", "--var", "version=1.0", "--var", "expr=a=b",
		"--set", "nightly", "-i", "implementors/core/**/*.js",
		"-o", "public", "--format", "JSON", "--watch", "--port", "8080",
		"--log-level", "DEBUG", "--log-format", "json",
		"doc",
	}

	// --- Act ---
	cfg, shouldExit, err := Parse(args, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	assert.False(t, shouldExit)
	want := &app.Config{
		Command:     app.CommandBuild,
		ConfigPaths: []string{"site.hcl", "more/"},
		Root:        "doc",
		Include:     []string{"implementors/core/**/*.js"},
		Output:      "public",
		Title:       "core",
		Vars:        map[string]string{"version": "1.0", "expr": "a=b"},
		Conditions:  []string{"nightly"},
		Format:      app.FormatJSON,
		Watch:       true,
		Port:        8080,
		LogFormat:   "json",
		LogLevel:    "debug",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, shouldExit, err := Parse(nil, &bytes.Buffer{})

	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Equal(t, app.CommandBuild, cfg.Command)
	assert.Equal(t, app.FormatHTML, cfg.Format)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Root)
}

func TestParse_Render(t *testing.T) {
	cfg, _, err := Parse([]string{"render", "page.tmpl", "--var", "a=1"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, app.CommandRender, cfg.Command)
	assert.Equal(t, "page.tmpl", cfg.TemplatePath)
	assert.Equal(t, map[string]string{"a": "1"}, cfg.Vars)

	cfg, _, err = Parse([]string{"render", "-t", "other.tmpl"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "other.tmpl", cfg.TemplatePath)
}

func TestParse_ShouldExit(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "help", args: []string{"-h"}},
		{name: "render help", args: []string{"render", "--help"}},
		{name: "render without template", args: []string{"render"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}

			cfg, shouldExit, err := Parse(tc.args, out)

			require.NoError(t, err)
			assert.True(t, shouldExit)
			assert.Nil(t, cfg)
			assert.Contains(t, out.String(), "Usage:")
		})
	}
}

func TestParse_UsageErrors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown flag", args: []string{"--nope"}, wantErr: "unknown flag: --nope"},
		{name: "bad log format", args: []string{"--log-format", "xml"}, wantErr: "invalid log-format"},
		{name: "bad log level", args: []string{"--log-level", "loud"}, wantErr: "invalid log-level"},
		{name: "bad format", args: []string{"--format", "toml"}, wantErr: `invalid format "toml"`},
		{name: "bad var", args: []string{"--var", "novalue"}, wantErr: `invalid --var "novalue"`},
		{name: "too many args", args: []string{"a", "b"}, wantErr: "unexpected arguments: b"},
		{name: "root twice", args: []string{"--root", "a", "b"}, wantErr: "unexpected argument: b"},
		{name: "render with watch", args: []string{"render", "x.tmpl", "--watch"}, wantErr: "build only"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})

			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantErr)
		})
	}
}

func TestParse_EnvironmentDefaults(t *testing.T) {
	// --- Arrange ---
	t.Setenv("FRAGMENTS_CONFIG", "a.hcl,b.hcl")
	t.Setenv("FRAGMENTS_ROOT", "from-env")
	t.Setenv("FRAGMENTS_PORT", "9000")
	t.Setenv("FRAGMENTS_LOG_LEVEL", "warn")

	// --- Act ---
	cfg, _, err := Parse([]string{"--port", "9001", "doc"}, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"a.hcl", "b.hcl"}, cfg.ConfigPaths)
	assert.Equal(t, "doc", cfg.Root)
	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestParse_EnvironmentError(t *testing.T) {
	t.Setenv("FRAGMENTS_PORT", "not-a-port")

	_, _, err := Parse(nil, &bytes.Buffer{})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "parse env:")
}
