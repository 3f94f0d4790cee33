package fragments

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Float is float content rendered with a fixed number of decimals.
type Float struct {
	Value     float64
	Precision int
}

func (f Float) String() string {
	return strconv.FormatFloat(f.Value, 'f', f.Precision, 64)
}

// Template is a parsed template together with the content, generators and
// conditions used to render it. A Template is not safe for concurrent
// mutation; rendering only reads.
type Template struct {
	content    map[string]any
	generators map[string]Generator
	conditions map[string]struct{}
	tokens     []token
}

func newTemplate(tokens []token) *Template {
	return &Template{
		content:    make(map[string]any),
		generators: make(map[string]Generator),
		conditions: make(map[string]struct{}),
		tokens:     tokens,
	}
}

// Parse creates a Template from source text.
func Parse(src string) (*Template, error) {
	tokens, err := parse(lexString(src))
	if err != nil {
		return nil, err
	}
	return newTemplate(tokens), nil
}

// MustParse is like Parse but panics on error. It is meant for templates
// compiled into the binary.
func MustParse(src string) *Template {
	t, err := Parse(src)
	if err != nil {
		panic(fmt.Sprintf("fragments: %v", err))
	}
	return t
}

// ParseReader creates a Template from everything readable from r.
func ParseReader(r io.Reader) (*Template, error) {
	lexemes, err := lexReader(r)
	if err != nil {
		return nil, err
	}
	tokens, err := parse(lexemes)
	if err != nil {
		return nil, err
	}
	return newTemplate(tokens), nil
}

// Insert assigns content to a placeholder label, replacing earlier content.
// A template inserted into itself, directly or through other templates,
// makes Render fail with ErrCycle.
func (t *Template) Insert(label string, item any) {
	t.content[label] = item
}

// InsertFloat assigns a float rendered with precision decimals.
func (t *Template) InsertFloat(label string, item float64, precision int) {
	t.content[label] = Float{Value: item, Precision: precision}
}

// InsertGenerator assigns a content generator to a generator label.
func (t *Template) InsertGenerator(label string, gen Generator) {
	t.generators[label] = gen
}

// Remove deletes the content assigned to label.
func (t *Template) Remove(label string) {
	delete(t.content, label)
}

// Set switches a condition on or off.
func (t *Template) Set(label string, value bool) {
	if value {
		t.conditions[label] = struct{}{}
	} else {
		delete(t.conditions, label)
	}
}

// Has reports whether label has content.
func (t *Template) Has(label string) bool {
	_, ok := t.content[label]
	return ok
}

// Labels returns the sorted, de-duplicated placeholder labels used anywhere
// in the template, including inside conditional blocks.
func (t *Template) Labels() []string {
	seen := make(map[string]struct{})
	var walk func([]token)
	walk = func(tokens []token) {
		for _, tok := range tokens {
			switch tok.kind {
			case tokPlaceholder:
				seen[tok.text] = struct{}{}
			case tokConditional, tokContentConditional:
				walk(tok.block)
			}
		}
	}
	walk(t.tokens)

	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// ErrCycle is returned by Render when a template is inserted into itself,
// directly or through other templates.
var ErrCycle = errors.New("template is inserted into itself")

// Render writes the template to w.
func (t *Template) Render(w io.Writer) error {
	return t.renderNested(w, nil)
}

// renderNested renders t inside the templates in active.
func (t *Template) renderNested(w io.Writer, active []*Template) error {
	if slices.Contains(active, t) {
		return ErrCycle
	}
	return t.render(w, t.tokens, append(active, t))
}

// String renders the template. Render errors are dropped; use Render when
// generators can fail.
func (t *Template) String() string {
	var b strings.Builder
	_ = t.Render(&b)
	return b.String()
}

func (t *Template) render(w io.Writer, tokens []token, active []*Template) error {
	for _, tok := range tokens {
		var err error
		switch tok.kind {
		case tokText:
			_, err = io.WriteString(w, tok.text)
		case tokPlaceholder:
			if v, ok := t.content[tok.text]; ok {
				err = writeContent(w, v, active)
			}
		case tokConditional:
			if _, set := t.conditions[tok.text]; set == tok.want {
				err = t.render(w, tok.block, active)
			}
		case tokContentConditional:
			if _, has := t.content[tok.text]; has == tok.want {
				err = t.render(w, tok.block, active)
			}
		case tokGenerated:
			if gen, ok := t.generators[tok.text]; ok {
				if err = gen.Generate(w, tok.args); err != nil {
					err = fmt.Errorf("generator %q: %w", tok.text, err)
				}
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeContent(w io.Writer, v any, active []*Template) error {
	switch c := v.(type) {
	case *Template:
		return c.renderNested(w, active)
	case string:
		_, err := io.WriteString(w, c)
		return err
	default:
		_, err := fmt.Fprint(w, c)
		return err
	}
}

// Clone returns a copy of t with its own content, generators and conditions.
// The parsed structure is shared, as it is never modified after parsing.
func (t *Template) Clone() *Template {
	c := newTemplate(t.tokens)
	for k, v := range t.content {
		c.content[k] = v
	}
	for k, v := range t.generators {
		c.generators[k] = v
	}
	for k := range t.conditions {
		c.conditions[k] = struct{}{}
	}
	return c
}
