package docindex

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Stability levels as rendered by rustdoc in "stability <Level>" anchors.
const (
	Stable       = "Stable"
	Unstable     = "Unstable"
	Experimental = "Experimental"
	Deprecated   = "Deprecated"
	Locked       = "Locked"
	Frozen       = "Frozen"
)

// Entry is one implementor line of a page.
type Entry struct {
	HTML      string `json:"html" yaml:"html"`
	Stability string `json:"stability,omitempty" yaml:"stability,omitempty"`
	Note      string `json:"note,omitempty" yaml:"note,omitempty"`
	Text      string `json:"text" yaml:"text"`
}

// ParseEntry extracts the stability marker and the plain text of a
// pre-rendered implementor line. Markup it does not understand is kept in
// HTML untouched.
func ParseEntry(src string) Entry {
	e := Entry{HTML: src}
	var text strings.Builder

	z := html.NewTokenizer(strings.NewReader(src))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				// the tokenizer only fails on read errors; strings.Reader has none
				return e
			}
			e.Text = strings.Join(strings.Fields(text.String()), " ")
			return e
		case html.TextToken:
			text.Write(z.Text())
		case html.StartTagToken:
			tok := z.Token()
			if tok.Data != "a" || e.Stability != "" {
				continue
			}
			level, note, ok := stabilityOf(tok)
			if ok {
				e.Stability, e.Note = level, note
			}
		}
	}
}

func stabilityOf(tok html.Token) (level, note string, ok bool) {
	var class, title string
	for _, a := range tok.Attr {
		switch a.Key {
		case "class":
			class = a.Val
		case "title":
			title = a.Val
		}
	}

	fields := strings.Fields(class)
	if len(fields) < 2 || fields[0] != "stability" {
		return "", "", false
	}
	level = fields[1]
	if rest, found := strings.CutPrefix(title, level+":"); found {
		note = strings.TrimSpace(rest)
	}
	return level, note, true
}
