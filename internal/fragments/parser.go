package fragments

import (
	"fmt"
	"strings"
)

// ParseError reports malformed template source.
type ParseError struct {
	Offset int // rune offset in the source
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Msg)
}

type tokenKind int

const (
	tokText tokenKind = iota
	tokPlaceholder
	tokConditional
	tokContentConditional
	tokGenerated
)

// token is a node of the parsed template tree.
type token struct {
	kind  tokenKind
	text  string // literal text or label
	want  bool   // expected condition value
	args  []string
	block []token
}

type parser struct {
	lexemes []lexeme
	pos     int
}

func (p *parser) next() (lexeme, bool) {
	if p.pos >= len(p.lexemes) {
		return lexeme{}, false
	}
	l := p.lexemes[p.pos]
	p.pos++
	return l, true
}

func (p *parser) peek() (lexeme, bool) {
	if p.pos >= len(p.lexemes) {
		return lexeme{}, false
	}
	return p.lexemes[p.pos], true
}

func (p *parser) eat(kind lexKind) bool {
	if l, ok := p.peek(); ok && l.kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for {
		l, ok := p.peek()
		if !ok || !l.isSpace() {
			return
		}
		p.pos++
	}
}

// until consumes lexemes up to and including the first one of kind stop
// and returns the source text of the consumed lexemes before it.
func (p *parser) until(stop lexKind) string {
	var b strings.Builder
	for {
		l, ok := p.next()
		if !ok || l.kind == stop {
			return b.String()
		}
		l.appendTo(&b)
	}
}

func parse(lexemes []lexeme) ([]token, error) {
	p := &parser{lexemes: lexemes}
	tokens, closed, err := p.block()
	if err != nil {
		return nil, err
	}
	if closed {
		return nil, &ParseError{Offset: p.lexemes[p.pos-1].offset, Msg: "block end without an open block"}
	}
	return tokens, nil
}

// block parses until a block end mark or the end of input. closed reports
// whether a block end mark was consumed.
func (p *parser) block() (tokens []token, closed bool, err error) {
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			tokens = append(tokens, token{kind: tokText, text: text.String()})
			text.Reset()
		}
	}

	for {
		l, ok := p.next()
		if !ok {
			flush()
			return tokens, false, nil
		}
		if l.kind != lexBegin {
			l.appendTo(&text)
			continue
		}

		tag, ok := p.next()
		if !ok {
			l.appendTo(&text)
			continue
		}

		switch tag.kind {
		case lexColon:
			flush()
			tokens = append(tokens, token{kind: tokPlaceholder, text: p.until(lexEnd)})
		case lexQuestion:
			flush()
			t, err := p.conditional()
			if err != nil {
				return nil, false, err
			}
			tokens = append(tokens, t)
		case lexPlus:
			flush()
			tokens = append(tokens, p.generator())
		case lexSlash:
			flush()
			p.until(lexEnd)
			return tokens, true, nil
		default:
			return nil, false, &ParseError{Offset: tag.offset, Msg: fmt.Sprintf("unknown token type: '%s'", tag)}
		}
	}
}

func (p *parser) conditional() (token, error) {
	negative := p.eat(lexExclamation)
	content := p.eat(lexColon)
	label := p.until(lexEnd)

	block, _, err := p.block()
	if err != nil {
		return token{}, err
	}

	kind := tokConditional
	if content {
		kind = tokContentConditional
	}
	return token{kind: kind, text: label, want: !negative, block: block}, nil
}

// generator parses the remainder of a [[+label args...]] tag.
func (p *parser) generator() token {
	t := token{kind: tokGenerated}

	if p.eat(lexQuote) {
		t.text = p.until(lexQuote)
	} else {
		var b strings.Builder
		for {
			l, ok := p.next()
			if !ok {
				t.text = b.String()
				return t
			}
			if l.kind == lexEnd {
				t.text = b.String()
				return t
			}
			if l.isSpace() {
				break
			}
			l.appendTo(&b)
		}
		t.text = b.String()
	}

	for {
		p.skipSpace()

		if p.eat(lexQuote) {
			t.args = append(t.args, p.until(lexQuote))
			continue
		}

		var arg strings.Builder
		for {
			l, ok := p.next()
			if !ok || l.kind == lexEnd {
				if arg.Len() > 0 {
					t.args = append(t.args, arg.String())
				}
				return t
			}
			if l.isSpace() {
				break
			}
			l.appendTo(&arg)
		}
		t.args = append(t.args, arg.String())
	}
}
