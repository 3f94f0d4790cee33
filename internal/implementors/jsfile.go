package implementors

import (
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrNotImplementorsFile is returned by ParseJS for input that has no
// implementors object at all.
var ErrNotImplementorsFile = errors.New("not an implementors file")

var assignmentRe = regexp.MustCompile(`implementors\[\s*(?:'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)")\s*\]\s*=\s*\[`)

// ParseJS reads a rustdoc implementors script and returns the table it would
// register. Only the data is interpreted; the script is never executed.
func ParseJS(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading implementors script: %w", err)
	}
	src := string(raw)
	if !strings.Contains(src, "implementors") {
		return nil, ErrNotImplementorsFile
	}

	var crates []Crate
	for _, m := range assignmentRe.FindAllStringSubmatchIndex(src, -1) {
		var key string
		var err error
		if m[2] >= 0 {
			key, err = unescapeJS(src[m[2]:m[3]])
		} else {
			key, err = unescapeJS(src[m[4]:m[5]])
		}
		if err != nil {
			return nil, fmt.Errorf("crate key at offset %d: %w", m[0], err)
		}

		entries, err := scanStringArray(src, m[1])
		if err != nil {
			return nil, fmt.Errorf("crate %q: %w", key, err)
		}
		crates = append(crates, Crate{Name: key, Entries: entries})
	}

	return NewTable(crates...), nil
}

// scanStringArray reads string literals from src starting just after an
// opening '[' up to the matching ']'. Trailing commas are allowed.
func scanStringArray(src string, pos int) ([]string, error) {
	entries := []string{}
	for {
		for pos < len(src) && (src[pos] == ',' || isJSSpace(src[pos])) {
			pos++
		}
		if pos >= len(src) {
			return nil, errors.New("unterminated array")
		}

		switch c := src[pos]; c {
		case ']':
			return entries, nil
		case '"', '\'':
			end := pos + 1
			for end < len(src) && src[end] != c {
				if src[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(src) {
				return nil, fmt.Errorf("unterminated string at offset %d", pos)
			}
			s, err := unescapeJS(src[pos+1 : end])
			if err != nil {
				return nil, fmt.Errorf("string at offset %d: %w", pos, err)
			}
			entries = append(entries, s)
			pos = end + 1
		default:
			return nil, fmt.Errorf("unsupported array element %q at offset %d", c, pos)
		}
	}
}

func isJSSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// unescapeJS resolves the escape sequences of a JavaScript string literal body.
func unescapeJS(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", errors.New("dangling escape")
		}
		switch e := s[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case 'x':
			if i+2 >= len(s) {
				return "", errors.New("short \\x escape")
			}
			v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("bad \\x escape: %w", err)
			}
			b.WriteRune(rune(v))
			i += 2
		case 'u':
			r, n, err := unicodeEscape(s[i+1:])
			if err != nil {
				return "", err
			}
			i += n
			// A high surrogate followed by a \u low surrogate is one UTF-16 pair.
			if utf16.IsSurrogate(r) && strings.HasPrefix(s[i+1:], `\u`) {
				if lo, m, err := unicodeEscape(s[i+3:]); err == nil {
					if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
						r = pair
						i += 2 + m
					}
				}
			}
			b.WriteRune(r)
		default:
			b.WriteByte(e)
		}
	}
	return b.String(), nil
}

// unicodeEscape decodes the part of a \u escape after the 'u' and returns
// the rune and the number of bytes consumed.
func unicodeEscape(s string) (rune, int, error) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return 0, 0, errors.New("unterminated \\u{ escape")
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			return 0, 0, fmt.Errorf("bad \\u{ escape %q", s[:end+1])
		}
		return rune(v), end + 1, nil
	}
	if len(s) < 4 {
		return 0, 0, errors.New("short \\u escape")
	}
	v, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("bad \\u escape: %w", err)
	}
	return rune(v), 4, nil
}

const dispatchSnippet = `
            if (window.register_implementors) {
                window.register_implementors(implementors);
            } else {
                window.pending_implementors = implementors;
            }
        
})()
`

// WriteJS writes t as a rustdoc implementors script that registers the table
// with the page aggregator or parks it for later.
func WriteJS(w io.Writer, t *Table) error {
	var b strings.Builder
	b.WriteString("(function() {var implementors = {};\n")
	for _, c := range t.Crates() {
		b.WriteString("implementors['")
		b.WriteString(escapeJS(c.Name, '\''))
		b.WriteString("'] = [")
		for _, e := range c.Entries {
			b.WriteByte('"')
			b.WriteString(escapeJS(e, '"'))
			b.WriteString(`",`)
		}
		b.WriteString("];\n")
	}
	b.WriteString(dispatchSnippet)

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeJS(s string, quote rune) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case quote:
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TraitFromPath derives a trait path from the location of an implementors
// script relative to the implementors root: "core/iter/trait.Extend.js"
// becomes "core::iter::Extend". A leading "implementors/" directory is
// ignored.
func TraitFromPath(rel string) (string, error) {
	p := path.Clean(filepath.ToSlash(rel))
	if i := strings.LastIndex(p, "implementors/"); i >= 0 {
		p = p[i+len("implementors/"):]
	}

	dir, file := path.Split(p)
	if !strings.HasPrefix(file, "trait.") || !strings.HasSuffix(file, ".js") {
		return "", fmt.Errorf("%s: expected a trait.<Name>.js file", rel)
	}
	name := strings.TrimSuffix(strings.TrimPrefix(file, "trait."), ".js")
	if name == "" || strings.Contains(name, ".") {
		return "", fmt.Errorf("%s: malformed trait file name", rel)
	}

	dir = strings.Trim(dir, "/")
	if dir == "" || dir == "." {
		return name, nil
	}
	return strings.ReplaceAll(dir, "/", "::") + "::" + name, nil
}
