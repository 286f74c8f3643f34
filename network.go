// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pulsenet

import (
	"sort"
	"strings"

	"github.com/gammazero/deque"
	"github.com/pkg/errors"
)

// DefaultEntry is the name of the module that receives the button pulse
// unless WithEntry is used.
//
const DefaultEntry = "broadcaster"

// An Option configures a network at construction time.
//
type Option func(n *Network)

// WithEntry sets the name of the module receiving the initial pulse of every
// trigger.
//
func WithEntry(name string) Option {
	return func(n *Network) { n.entry = name }
}

// Network is a runnable pulse network.
//
// The topology of a network never changes once built. Only the state of its
// modules and the trigger counter do. A Network is not safe for concurrent
// use.
//
type Network struct {
	modules  map[string]*Module
	names    []string // declaration order, then synthesized sinks
	entry    string
	triggers int

	q deque.Deque[Pulse]
}

// New builds a network from a list of declarations.
//
// Construction runs in two passes: all declared modules and their outputs
// are registered first, then every edge src -> dst registers src as an input
// of dst. Destinations that are never declared become relays with no
// outputs. Aggregate modules start with a low memory for each of their
// inputs.
//
func New(decls []Decl, opts ...Option) (*Network, error) {
	n := &Network{
		modules: make(map[string]*Module, len(decls)),
		entry:   DefaultEntry,
	}
	for _, o := range opts {
		o(n)
	}

	for _, d := range decls {
		if d.Name == "" {
			return nil, errors.WithStack(&ParseError{Input: d.String(), Msg: "empty module name"})
		}
		if _, ok := n.modules[d.Name]; ok {
			return nil, errors.WithStack(&ParseError{Input: d.String(), Msg: "duplicate declaration of module " + d.Name})
		}
		for _, o := range d.Outputs {
			if o == "" {
				return nil, errors.WithStack(&ParseError{Input: d.String(), Msg: "empty destination name"})
			}
		}
		outs := make([]string, len(d.Outputs))
		copy(outs, d.Outputs)
		n.modules[d.Name] = newModule(d.Name, d.Kind, outs)
		n.names = append(n.names, d.Name)
	}

	for _, d := range decls {
		for _, o := range d.Outputs {
			m := n.modules[o]
			if m == nil {
				m = newModule(o, Relay, nil)
				n.modules[o] = m
				n.names = append(n.names, o)
			}
			m.addInput(d.Name)
		}
	}

	e, ok := n.modules[n.entry]
	if !ok {
		return nil, errors.Errorf("entry module %q not declared", n.entry)
	}
	// Button is not an input of any module.
	if e.Kind == Aggregate {
		return nil, errors.Errorf("entry module %q cannot be an aggregate", n.entry)
	}
	return n, nil
}

// Module returns the module with the given name.
//
func (n *Network) Module(name string) (*Module, bool) {
	m, ok := n.modules[name]
	return m, ok
}

// Names returns the names of all modules in n: declared modules in
// declaration order followed by synthesized sinks.
//
func (n *Network) Names() []string {
	names := make([]string, len(n.names))
	copy(names, n.names)
	return names
}

// Len returns the number of modules in n.
//
func (n *Network) Len() int { return len(n.names) }

// Entry returns the name of the entry module.
//
func (n *Network) Entry() string { return n.entry }

// Triggers returns the number of triggers run since construction or since
// the last call to Reset.
//
func (n *Network) Triggers() int { return n.triggers }

// Reset restores the construction-time state of n: toggles are off,
// aggregates remember low for all their inputs, the trigger counter is
// zero and no pulse is in flight.
//
func (n *Network) Reset() {
	for _, m := range n.modules {
		m.reset()
	}
	n.q.Clear()
	n.triggers = 0
}

// Sink returns the name of the single module of n that has no outputs.
//
func (n *Network) Sink() (string, error) {
	var sinks []string
	for _, name := range n.names {
		if len(n.modules[name].Outputs) == 0 {
			sinks = append(sinks, name)
		}
	}
	if len(sinks) != 1 {
		sort.Strings(sinks)
		return "", errors.Wrapf(ErrStructuralAssumption, "expected exactly one terminal module, found %d [%s]", len(sinks), strings.Join(sinks, ", "))
	}
	return sinks[0], nil
}
