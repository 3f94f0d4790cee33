package print

import (
	"io"
	"strings"

	"github.com/vk/fragments/internal/fragments"
	"github.com/vk/fragments/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Join writes its arguments back to back.
func Join(w io.Writer, args []string) error {
	_, err := io.WriteString(w, strings.Join(args, ""))
	return err
}

// Echo writes its arguments separated by colons.
func Echo(w io.Writer, args []string) error {
	_, err := io.WriteString(w, strings.Join(args, ":"))
	return err
}

// Register registers the generators with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterGenerator("join", fragments.GeneratorFunc(Join))
	r.RegisterGenerator("echo", fragments.GeneratorFunc(Echo))
}
