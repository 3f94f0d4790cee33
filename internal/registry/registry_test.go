package registry

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fragments/internal/fragments"
)

func constant(s string) fragments.Generator {
	return fragments.GeneratorFunc(func(w io.Writer, _ []string) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

type testModule struct{ name, out string }

func (m testModule) Register(r *Registry) {
	r.RegisterGenerator(m.name, constant(m.out))
}

func TestRegistry_InstallIntoTemplate(t *testing.T) {
	// --- Arrange ---
	reg := New()
	reg.RegisterModules(testModule{name: "a", out: "A"}, testModule{name: "b", out: "B"})
	tmpl, err := fragments.Parse("[[+a]]-[[+b]]-[[+c]]")
	require.NoError(t, err)

	// --- Act ---
	reg.Install(tmpl)

	// --- Assert ---
	assert.Equal(t, "A-B-", tmpl.String())
	assert.Equal(t, []string{"a", "b"}, reg.Names())
}

func TestRegistry_Lookup(t *testing.T) {
	reg := New()
	reg.RegisterGenerator("x", constant("X"))

	_, ok := reg.Generator("x")
	assert.True(t, ok)
	_, ok = reg.Generator("y")
	assert.False(t, ok)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	reg := New()
	reg.RegisterGenerator("x", constant("X"))

	assert.PanicsWithValue(t, "generator with name 'x' already registered", func() {
		reg.RegisterGenerator("x", constant("Y"))
	})
}

func TestRegistry_InvalidRegistrationPanics(t *testing.T) {
	reg := New()

	assert.Panics(t, func() { reg.RegisterGenerator("", constant("X")) })
	assert.Panics(t, func() { reg.RegisterGenerator("nil", nil) })
}
