// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pulsenet

import (
	"strings"

	"github.com/db47h/pulsenet/internal/netdesc"
	"github.com/pkg/errors"
)

// A Decl declares a module together with its outputs.
//
type Decl struct {
	Kind    Kind
	Name    string
	Outputs []string
}

// String returns the text form of d, as accepted by ParseDecl.
//
func (d Decl) String() string {
	return d.Kind.Prefix() + d.Name + " -> " + strings.Join(d.Outputs, ", ")
}

// ParseDecl parses a declaration line of the form
//
//	[%|&]name -> dest[, dest]*
//
// A '%' prefix declares a Toggle, '&' an Aggregate. Names without prefix are
// relays.
//
func ParseDecl(line string) (Decl, error) {
	d, err := netdesc.Parse(line)
	if err != nil {
		if e, ok := errors.Cause(err).(*netdesc.Error); ok {
			return Decl{}, errors.WithStack(&ParseError{Input: e.Input, Pos: e.Pos + 1, Msg: e.Msg})
		}
		return Decl{}, err
	}
	k := Relay
	switch d.Prefix {
	case '%':
		k = Toggle
	case '&':
		k = Aggregate
	}
	return Decl{Kind: k, Name: d.Name, Outputs: d.Outputs}, nil
}

// Parse builds a network from declaration lines. Blank lines are ignored.
// See ParseDecl for the syntax of a single line.
//
// The first malformed line aborts parsing with a *ParseError.
//
func Parse(lines []string, opts ...Option) (*Network, error) {
	decls := make([]Decl, 0, len(lines))
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		d, err := ParseDecl(l)
		if err != nil {
			if e, ok := errors.Cause(err).(*ParseError); ok {
				e.Line = i + 1
			}
			return nil, err
		}
		decls = append(decls, d)
	}
	return New(decls, opts...)
}
