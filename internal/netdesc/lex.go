// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package netdesc

import (
	"unicode"
	"unicode/utf8"
)

// Type is the type of a lexed item.
//
type Type int

// Tokens
const (
	EOF Type = iota
	Raw
	Ident
	Percent
	Ampersand
	Arrow
	Comma
)

var typeNames = [...]string{
	EOF:       "end of input",
	Raw:       "character",
	Ident:     "name",
	Percent:   "'%'",
	Ampersand: "'&'",
	Arrow:     "'->'",
	Comma:     "','",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown token"
	}
	return typeNames[t]
}

// Item is a lexed token.
//
type Item struct {
	Type  Type
	Pos   int // byte offset in the input
	Value string
}

func (i Item) String() string {
	switch i.Type {
	case EOF:
		return i.Type.String()
	case Ident:
		return "name " + i.Value
	}
	return "'" + i.Value + "'"
}

const eof = -1

type stateFn func(l *Lexer) stateFn

// Lexer splits a single declaration line into items.
//
type Lexer struct {
	input string
	start int
	pos   int
	width int
	items []Item
	state stateFn
}

// NewLexer returns a new lexer for a declaration line.
//
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, state: lexInit}
}

// Lex returns the next item in the input stream. Once the end of input is
// reached, it returns EOF items forever.
//
func (l *Lexer) Lex() Item {
	for len(l.items) == 0 {
		if l.state = l.state(l); l.state == nil {
			l.state = lexInit
		}
	}
	i := l.items[0]
	l.items = l.items[1:]
	return i
}

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	return r
}

func (l *Lexer) backup() {
	l.pos -= l.width
	l.width = 0
}

func (l *Lexer) acceptWhile(f func(rune) bool) {
	for r := l.next(); r != eof && f(r); r = l.next() {
	}
	l.backup()
}

func (l *Lexer) emit(t Type) {
	l.items = append(l.items, Item{Type: t, Pos: l.start, Value: l.input[l.start:l.pos]})
	l.start = l.pos
}

func isIdent(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func lexInit(l *Lexer) stateFn {
	l.start = l.pos
	r := l.next()
	switch {
	case r == eof:
		return lexEOF
	case unicode.IsSpace(r):
		l.acceptWhile(unicode.IsSpace)
	case isIdent(r):
		l.acceptWhile(isIdent)
		l.emit(Ident)
	case r == '%':
		l.emit(Percent)
	case r == '&':
		l.emit(Ampersand)
	case r == ',':
		l.emit(Comma)
	case r == '-':
		if l.next() == '>' {
			l.emit(Arrow)
			break
		}
		l.backup()
		fallthrough
	default:
		l.emit(Raw)
		return lexEOF
	}
	return nil
}

// lexEOF places the lexer in End-Of-File state.
// Once in this state, the lexer will only emit EOF.
//
func lexEOF(l *Lexer) stateFn {
	l.start = len(l.input)
	l.items = append(l.items, Item{Type: EOF, Pos: len(l.input), Value: "end of input"})
	return lexEOF
}
