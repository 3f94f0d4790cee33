package fragments

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

type lexKind int

const (
	lexBegin lexKind = iota
	lexEnd
	lexColon
	lexQuestion
	lexExclamation
	lexPlus
	lexSlash
	lexQuote
	lexChar
)

var markers = map[rune]lexKind{
	':': lexColon,
	'?': lexQuestion,
	'!': lexExclamation,
	'+': lexPlus,
	'/': lexSlash,
	'"': lexQuote,
}

// lexeme is a single lexer output. offset is the rune offset of its first
// character in the source.
type lexeme struct {
	kind   lexKind
	char   rune
	offset int
}

func (l lexeme) isSpace() bool {
	return l.kind == lexChar && unicode.IsSpace(l.char)
}

// appendTo writes the source text of l to b.
func (l lexeme) appendTo(b *strings.Builder) {
	switch l.kind {
	case lexBegin:
		b.WriteString("[[")
	case lexEnd:
		b.WriteString("]]")
	case lexColon:
		b.WriteByte(':')
	case lexQuestion:
		b.WriteByte('?')
	case lexExclamation:
		b.WriteByte('!')
	case lexPlus:
		b.WriteByte('+')
	case lexSlash:
		b.WriteByte('/')
	case lexQuote:
		b.WriteByte('"')
	default:
		b.WriteRune(l.char)
	}
}

func (l lexeme) String() string {
	var b strings.Builder
	l.appendTo(&b)
	return b.String()
}

// lex splits the rune stream of r into lexemes.
func lex(r io.RuneReader) ([]lexeme, error) {
	var out []lexeme
	offset := 0

	next := func() (rune, bool, error) {
		c, _, err := r.ReadRune()
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, fmt.Errorf("io error: %w", err)
		}
		offset++
		return c, true, nil
	}

	// one rune of lookahead for "[[" and "]]"
	var peeked rune
	var hasPeek bool

	for {
		var c rune
		if hasPeek {
			c, hasPeek = peeked, false
		} else {
			var ok bool
			var err error
			c, ok, err = next()
			if err != nil {
				return nil, err
			}
			if !ok {
				return out, nil
			}
		}
		start := offset - 1

		switch c {
		case '[', ']':
			n, ok, err := next()
			if err != nil {
				return nil, err
			}
			if ok && n == c {
				kind := lexBegin
				if c == ']' {
					kind = lexEnd
				}
				out = append(out, lexeme{kind: kind, offset: start})
				continue
			}
			out = append(out, lexeme{kind: lexChar, char: c, offset: start})
			if ok {
				peeked, hasPeek = n, true
			}
		case '\\':
			n, ok, err := next()
			if err != nil {
				return nil, err
			}
			if !ok {
				return out, nil
			}
			out = append(out, lexeme{kind: lexChar, char: n, offset: start})
		default:
			if kind, ok := markers[c]; ok {
				out = append(out, lexeme{kind: kind, offset: start})
			} else {
				out = append(out, lexeme{kind: lexChar, char: c, offset: start})
			}
		}
	}
}

func lexString(s string) []lexeme {
	// strings.Reader never fails
	out, _ := lex(strings.NewReader(s))
	return out
}

func lexReader(r io.Reader) ([]lexeme, error) {
	if rr, ok := r.(io.RuneReader); ok {
		return lex(rr)
	}
	return lex(bufio.NewReader(r))
}
