// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package netdesc parses module declaration lines of the form
//
//	[%|&]name -> dest, dest, ...
//
package netdesc

import (
	"fmt"

	"github.com/pkg/errors"
)

// Decl is a parsed declaration line.
//
type Decl struct {
	Prefix  rune // 0, '%' or '&'
	Name    string
	Outputs []string
}

// Error is a syntax error in a declaration line.
//
type Error struct {
	Input string
	Pos   int // byte offset
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("in %q at pos %d: %s", e.Input, e.Pos+1, e.Msg)
}

// Parse parses a single declaration line.
//
func Parse(input string) (Decl, error) {
	var d Decl
	l := NewLexer(input)

	i := l.Lex()
	switch i.Type {
	case Percent, Ampersand:
		d.Prefix = rune(i.Value[0])
		i = l.Lex()
	}
	if i.Type != Ident {
		return Decl{}, parseError(input, i, "expected module name")
	}
	d.Name = i.Value

	if i = l.Lex(); i.Type != Arrow {
		return Decl{}, parseError(input, i, "expected '->' after module name")
	}
	for {
		if i = l.Lex(); i.Type != Ident {
			return Decl{}, parseError(input, i, "expected destination name")
		}
		d.Outputs = append(d.Outputs, i.Value)
		switch i = l.Lex(); i.Type {
		case EOF:
			return d, nil
		case Comma:
		default:
			return Decl{}, parseError(input, i, "expected comma or end of input")
		}
	}
}

func parseError(in string, i Item, msg string) error {
	return errors.WithStack(&Error{Input: in, Pos: i.Pos, Msg: msg + ", got " + i.String()})
}
