package markdown

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/vk/fragments/internal/fragments"
	"github.com/vk/fragments/internal/registry"
	"github.com/yuin/goldmark"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Generator renders its arguments, one paragraph each, as HTML.
type Generator struct {
	md goldmark.Markdown
}

// NewGenerator returns a Generator using the default goldmark pipeline.
func NewGenerator() *Generator {
	return &Generator{md: goldmark.New()}
}

// Generate implements fragments.Generator.
func (g *Generator) Generate(w io.Writer, args []string) error {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(strings.Join(args, "\n\n")), &buf); err != nil {
		return fmt.Errorf("markdown: %w", err)
	}
	_, err := w.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	return err
}

var _ fragments.Generator = (*Generator)(nil)

// Register registers the generator with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterGenerator("markdown", NewGenerator())
}
