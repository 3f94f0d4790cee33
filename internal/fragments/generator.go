package fragments

import "io"

// Generator produces content for a [[+label args...]] tag.
type Generator interface {
	Generate(w io.Writer, args []string) error
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(w io.Writer, args []string) error

// Generate calls f(w, args).
func (f GeneratorFunc) Generate(w io.Writer, args []string) error {
	return f(w, args)
}
