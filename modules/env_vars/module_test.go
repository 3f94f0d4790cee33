package env_vars

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fragments/internal/fragments"
	"github.com/vk/fragments/internal/registry"
)

func render(t *testing.T, m *Module, src string) (string, error) {
	t.Helper()
	reg := registry.New()
	reg.RegisterModules(m)
	tmpl, err := fragments.Parse(src)
	require.NoError(t, err)
	reg.Install(tmpl)

	var b strings.Builder
	err = tmpl.Render(&b)
	return b.String(), err
}

func TestEnv_FromProcess(t *testing.T) {
	t.Setenv("FRAGMENTS_TEST_VALUE", "hello")

	got, err := render(t, &Module{}, "[[+env FRAGMENTS_TEST_VALUE]]")

	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestEnv_Default(t *testing.T) {
	m := &Module{Lookup: func(string) (string, bool) { return "", false }}

	got, err := render(t, m, `[[+env MISSING "fallback value"]]`)
	require.NoError(t, err)
	assert.Equal(t, "fallback value", got)

	got, err = render(t, m, `[[+env MISSING]]`)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestEnv_SetButEmptyIgnoresDefault(t *testing.T) {
	m := &Module{Lookup: func(string) (string, bool) { return "", true }}

	got, err := render(t, m, `[[+env EMPTY fallback]]`)

	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestEnv_BadArguments(t *testing.T) {
	_, err := render(t, &Module{}, `[[+env]]`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected NAME [DEFAULT]")

	_, err = render(t, &Module{}, `[[+env a b c]]`)
	require.Error(t, err)
}
