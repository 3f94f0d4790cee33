package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fragments/internal/docindex"
	"github.com/vk/fragments/internal/hcl"
	"github.com/vk/fragments/internal/implementors"
	"github.com/vk/fragments/internal/registry"
	"github.com/vk/fragments/internal/testutil"
)

const (
	vecEntry    = "<a class='stability Stable' title='Stable'></a>impl&lt;T&gt; <a class='trait'>Extend</a>&lt;T&gt; for <a class='struct'>Vec</a>&lt;T&gt;"
	stringEntry = "<a class='stability Unstable' title='Unstable: waiting on Extend stabilization'></a>impl <a class='trait'>Extend</a>&lt;char&gt; for <a class='struct'>String</a>"
	strEntry    = "<a class='stability Deprecated' title='Deprecated: use CowString'></a>impl Str for MaybeOwned"
)

// jsFile renders crates in the rustdoc implementors script layout.
func jsFile(t *testing.T, crates ...implementors.Crate) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, implementors.WriteJS(&b, implementors.NewTable(crates...)))
	return b.String()
}

func docTree(t *testing.T) string {
	t.Helper()
	return testutil.WriteFiles(t, map[string]string{
		"implementors/core/iter/trait.Extend.js": jsFile(t, implementors.Crate{Name: "collections", Entries: []string{vecEntry, stringEntry}}),
		"implementors/core/str/trait.Str.js":     jsFile(t, implementors.Crate{Name: "collections", Entries: []string{strEntry}}),
		"search-index.js":                        "var searchIndex = {};",
	})
}

// setupAppTest creates a new app instance for system testing, with debug
// logs captured in the returned buffer.
func setupAppTest(t *testing.T, cfg Config, modules ...registry.Module) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	cfg.LogLevel = "debug"
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &testutil.SafeBuffer{}
	logs := &testutil.SafeBuffer{}
	testApp := NewApp(out, logs, appConfig, hcl.NewLoader(), modules...)

	t.Cleanup(func() {
		if os.Getenv("FRAGMENTS_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return testApp, out, logs
}

func TestBuild_HTML(t *testing.T) {
	// --- Arrange ---
	root := docTree(t)
	output := filepath.Join(t.TempDir(), "public")
	a, _, logs := setupAppTest(t, Config{Root: root, Output: output, Title: "nightly"})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)

	index := testutil.ReadFile(t, output, "index.html")
	assert.Contains(t, index, `<li><a href="core/iter/trait.Extend.html">core::iter::Extend</a> (2)</li>`)
	assert.Contains(t, index, `<li><a href="core/str/trait.Str.html">core::str::Str</a> (1)</li>`)
	assert.Contains(t, index, "<title>nightly - Implementors</title>")

	page := testutil.ReadFile(t, output, "core/iter/trait.Extend.html")
	assert.Contains(t, page, "<title>core::iter::Extend - nightly</title>")
	assert.Contains(t, page, "Implementors (2)")
	assert.Contains(t, page, "1 unstable implementations.")

	assert.Contains(t, logs.String(), "Implementors loaded.")
	assert.Contains(t, logs.String(), "All Go modules registered.")
}

func TestBuild_PagesGoThroughParkedTable(t *testing.T) {
	root := docTree(t)
	a, _, logs := setupAppTest(t, Config{Root: root, Format: FormatJSON})

	require.NoError(t, a.Build(a.ctx))

	require.Len(t, a.loaders, 2)
	for rel, loader := range a.loaders {
		assert.Equal(t, implementors.Ready, loader.State(), rel)
		_, pending := loader.Pending()
		assert.False(t, pending, rel)
	}
	assert.Contains(t, logs.String(), "parked")
}

func TestBuild_JSON(t *testing.T) {
	root := docTree(t)
	a, out, _ := setupAppTest(t, Config{Root: root, Format: FormatJSON})

	require.NoError(t, a.Run(context.Background()))

	var export docindex.Export
	require.NoError(t, json.Unmarshal([]byte(out.String()), &export))
	require.Len(t, export.Pages, 2)
	assert.Equal(t, "core::iter::Extend", export.Pages[0].Trait)
	assert.Equal(t, "implementors/core/iter/trait.Extend.js", export.Pages[0].Source)
	assert.Equal(t, docindex.Unstable, export.Pages[0].Crates[0].Entries[1].Stability)
	assert.Equal(t, "core::str::Str", export.Pages[1].Trait)
}

func TestBuild_YAML(t *testing.T) {
	root := docTree(t)
	a, out, _ := setupAppTest(t, Config{Root: root, Format: FormatYAML, Include: []string{"implementors/core/str/*.js"}})

	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "trait: core::str::Str")
	assert.Contains(t, out.String(), "stability: Deprecated")
	assert.NotContains(t, out.String(), "core::iter::Extend")
}

func TestBuild_SiteConfig(t *testing.T) {
	// --- Arrange ---
	root := docTree(t)
	cfgDir := testutil.WriteFiles(t, map[string]string{
		"site.hcl": `
site {
  title = "from config"
  root  = "` + filepath.ToSlash(root) + `"
  vars  = { channel = "beta" }
  conditions = ["beta"]

  template "page" {
    source = "[[:trait]]|[[:title]]|[[?beta]][[:channel]][[/]]|[[+implementors]]"
  }
  template "entry" {
    source = "[[:crate]]:[[+upper ok]]<[[:text]]>"
  }
}
`,
	})
	output := t.TempDir()
	a, _, _ := setupAppTest(t, Config{ConfigPaths: []string{filepath.Join(cfgDir, "site.hcl")}, Output: output})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "from config", a.Site().Title)
	assert.Equal(t,
		"core::str::Str|from config|beta|collections:OK<impl Str for MaybeOwned>",
		testutil.ReadFile(t, output, "core/str/trait.Str.html"))
}

func TestBuild_Errors(t *testing.T) {
	t.Run("html without output", func(t *testing.T) {
		a, _, _ := setupAppTest(t, Config{Root: docTree(t)})

		err := a.Run(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "output directory is required")
	})

	t.Run("malformed implementors file", func(t *testing.T) {
		root := testutil.WriteFiles(t, map[string]string{
			"implementors/core/trait.Broken.js": `implementors['x'] = ["unterminated`,
		})
		a, _, _ := setupAppTest(t, Config{Root: root, Format: FormatJSON})

		err := a.Run(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "implementors/core/trait.Broken.js")
	})

	t.Run("not a trait file", func(t *testing.T) {
		root := testutil.WriteFiles(t, map[string]string{"implementors/core/helper.js": "x"})
		a, _, _ := setupAppTest(t, Config{Root: root, Format: FormatJSON})

		err := a.Run(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected a trait.<Name>.js file")
	})
}

func TestBuild_NoFiles(t *testing.T) {
	a, out, logs := setupAppTest(t, Config{Root: t.TempDir(), Format: FormatJSON})

	require.NoError(t, a.Run(context.Background()))

	assert.JSONEq(t, `{"pages": []}`, out.String())
	assert.Contains(t, logs.String(), "No implementors files found.")
}

func TestNewApp_PanicsOnBadConfiguration(t *testing.T) {
	testCases := []struct {
		name  string
		files map[string]string
	}{
		{name: "hcl syntax", files: map[string]string{"site.hcl": "site {"}},
		{name: "template syntax", files: map[string]string{"site.hcl": `site {
  template "page" { source = "[[/]]" }
}`}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := testutil.WriteFiles(t, tc.files)
			cfg, err := NewConfig(Config{ConfigPaths: []string{dir}})
			require.NoError(t, err)

			assert.Panics(t, func() {
				NewApp(&testutil.SafeBuffer{}, &testutil.SafeBuffer{}, cfg, hcl.NewLoader())
			})
		})
	}
}

func TestRender(t *testing.T) {
	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{
		"greeting.tmpl": `[[:title]]: [[+title "hello world"]][[?beta]] (beta)[[/]][[?!stable]] unstable[[/]] v[[:version]]`,
	})
	a, out, _ := setupAppTest(t, Config{
		Command:      CommandRender,
		TemplatePath: filepath.Join(dir, "greeting.tmpl"),
		Title:        "docs",
		Vars:         map[string]string{"version": "1.2"},
		Conditions:   []string{"beta"},
	})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "docs: Hello World (beta) unstable v1.2", out.String())
}

func TestRender_Errors(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"bad.tmpl": "[[+env]]"})

	a, _, _ := setupAppTest(t, Config{Command: CommandRender, TemplatePath: filepath.Join(dir, "bad.tmpl")})
	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `generator "env"`)

	a, _, _ = setupAppTest(t, Config{Command: CommandRender, TemplatePath: filepath.Join(dir, "missing.tmpl")})
	require.Error(t, a.Run(context.Background()))
}
