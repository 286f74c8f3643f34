// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pulsenet

import (
	"fmt"

	"github.com/pkg/errors"
)

// Errors returned by the periodicity analyzer. Use errors.Cause to test for
// them.
//
var (
	// ErrStructuralAssumption is returned when the network around the sink
	// does not have the shape the analyzer relies on.
	ErrStructuralAssumption = errors.New("structural assumption violated")
	// ErrNoPeriod is returned when some watchpoint did not emit a high pulse
	// within the trigger limit.
	ErrNoPeriod = errors.New("no period found")
	// ErrOverflow is returned when the least common multiple of the periods
	// does not fit in a uint64.
	ErrOverflow = errors.New("activation index overflows uint64")
)

// A ParseError is returned by the network builder for malformed or
// conflicting declarations. No network is built when it is returned.
//
type ParseError struct {
	Line  int // 1-based line number, 0 if unknown
	Input string
	Pos   int // 1-based position in Input, 0 if not applicable
	Msg   string
}

func (e *ParseError) Error() string {
	var s string
	if e.Line > 0 {
		s = fmt.Sprintf("line %d: ", e.Line)
	}
	if e.Pos > 0 {
		return s + fmt.Sprintf("in %q at pos %d: %s", e.Input, e.Pos, e.Msg)
	}
	return s + fmt.Sprintf("in %q: %s", e.Input, e.Msg)
}

// An UnknownUpstreamError is the panic value raised when an aggregate module
// receives a pulse from a module that is not one of its inputs. Networks
// built with New or Parse never trigger it.
//
type UnknownUpstreamError struct {
	Module string
	From   string
}

func (e *UnknownUpstreamError) Error() string {
	return fmt.Sprintf("aggregate %s: pulse from unknown upstream module %s", e.Module, e.From)
}
