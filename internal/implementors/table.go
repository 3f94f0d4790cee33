package implementors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Crate is one row of a Table: a crate name and its rendered entries.
type Crate struct {
	Name    string
	Entries []string
}

// Table maps crate names to ordered entry lists. Crate order is display
// order. A Table is immutable once built; accessors return copies.
type Table struct {
	names   []string
	entries map[string][]string
}

// NewTable builds a Table from crates in order. A repeated name replaces the
// entries of the earlier row and keeps its position.
func NewTable(crates ...Crate) *Table {
	t := &Table{entries: make(map[string][]string, len(crates))}
	for _, c := range crates {
		if _, exists := t.entries[c.Name]; !exists {
			t.names = append(t.names, c.Name)
		}
		t.entries[c.Name] = slices.Clone(c.Entries)
	}
	return t
}

// Len returns the number of crates.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Names returns the crate names in display order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.names)
}

// Entries returns the entries for a crate.
func (t *Table) Entries(name string) ([]string, bool) {
	if t == nil {
		return nil, false
	}
	e, ok := t.entries[name]
	return slices.Clone(e), ok
}

// Crates returns the rows of the table in display order.
func (t *Table) Crates() []Crate {
	out := make([]Crate, 0, t.Len())
	for _, name := range t.Names() {
		e, _ := t.Entries(name)
		out = append(out, Crate{Name: name, Entries: e})
	}
	return out
}

// Equal reports whether both tables hold the same crates, in the same order,
// with the same entries.
func (t *Table) Equal(o *Table) bool {
	if t.Len() != o.Len() {
		return false
	}
	for i, name := range t.Names() {
		if o.names[i] != name {
			return false
		}
		if !slices.Equal(t.entries[name], o.entries[name]) {
			return false
		}
	}
	return true
}

func (t *Table) String() string {
	return fmt.Sprintf("implementors.Table%v", t.Names())
}

// MarshalJSON encodes the table as a JSON object with keys in display order.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range t.Names() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		entries := t.entries[name]
		if entries == nil {
			entries = []string{}
		}
		val, err := json.Marshal(entries)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (t *Table) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("implementors table: expected object, got %v", tok)
	}

	var crates []Crate
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("implementors table: expected key, got %v", tok)
		}
		var entries []string
		if err := dec.Decode(&entries); err != nil {
			return fmt.Errorf("implementors table: crate %q: %w", name, err)
		}
		crates = append(crates, Crate{Name: name, Entries: entries})
	}
	*t = *NewTable(crates...)
	return nil
}

// MarshalYAML encodes the table as a YAML mapping with keys in display order.
func (t *Table) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range t.Crates() {
		var val yaml.Node
		entries := c.Entries
		if entries == nil {
			entries = []string{}
		}
		if err := val.Encode(entries); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Name},
			&val,
		)
	}
	return node, nil
}
