package env_vars

import (
	"fmt"
	"io"
	"os"

	"github.com/vk/fragments/internal/fragments"
	"github.com/vk/fragments/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Lookup overrides os.LookupEnv. Used in tests.
	Lookup func(string) (string, bool)
}

// Generate writes the value of the environment variable named by the first
// argument. The optional second argument is written when the variable is
// unset.
func (m *Module) Generate(w io.Writer, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("env: expected NAME [DEFAULT], got %d arguments", len(args))
	}
	lookup := m.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	value, ok := lookup(args[0])
	if !ok && len(args) == 2 {
		value = args[1]
	}
	_, err := io.WriteString(w, value)
	return err
}

// Register registers the generator with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterGenerator("env", fragments.GeneratorFunc(m.Generate))
}
