package text

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vk/fragments/internal/fragments"
	"github.com/vk/fragments/internal/registry"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Module implements the registry.Module interface for this package.
// Its generators use the casing and number rules of Lang, which defaults to
// English.
type Module struct {
	Lang language.Tag
}

func (m *Module) tag() language.Tag {
	if m.Lang == language.Und {
		return language.English
	}
	return m.Lang
}

func caser(c cases.Caser) fragments.GeneratorFunc {
	return func(w io.Writer, args []string) error {
		_, err := io.WriteString(w, c.String(strings.Join(args, " ")))
		return err
	}
}

// Number writes its single integer argument with the grouping separators
// of the module language.
func (m *Module) Number(w io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("number: expected 1 argument, got %d", len(args))
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("number: %w", err)
	}
	_, err = message.NewPrinter(m.tag()).Fprintf(w, "%d", n)
	return err
}

// Register registers the generators with the registry.
func (m *Module) Register(r *registry.Registry) {
	tag := m.tag()
	r.RegisterGenerator("title", caser(cases.Title(tag)))
	r.RegisterGenerator("upper", caser(cases.Upper(tag)))
	r.RegisterGenerator("lower", caser(cases.Lower(tag)))
	r.RegisterGenerator("number", fragments.GeneratorFunc(m.Number))
}
