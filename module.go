// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pulsenet

// Kind is the behavior of a module.
//
type Kind int

// Module kinds.
//
const (
	// Relay forwards every pulse unchanged to all of its outputs.
	Relay Kind = iota
	// Toggle ignores high pulses. On a low pulse it flips its state and
	// sends high if it is now on, low otherwise.
	Toggle
	// Aggregate remembers the last level received from each of its inputs
	// and sends low if all of them are high, high otherwise.
	Aggregate
)

func (k Kind) String() string {
	switch k {
	case Relay:
		return "relay"
	case Toggle:
		return "toggle"
	case Aggregate:
		return "aggregate"
	}
	return "unknown"
}

// Prefix returns the declaration prefix for k: "%" for Toggle, "&" for
// Aggregate and "" for Relay.
//
func (k Kind) Prefix() string {
	switch k {
	case Toggle:
		return "%"
	case Aggregate:
		return "&"
	}
	return ""
}

// A Module is a node of a network.
//
type Module struct {
	Name    string
	Kind    Kind
	Outputs []string // fan-out, in declaration order
	Inputs  []string // fan-in, derived from the other modules' outputs

	on     bool
	memory map[string]Level
}

func newModule(name string, k Kind, outputs []string) *Module {
	m := &Module{Name: name, Kind: k, Outputs: outputs}
	if k == Aggregate {
		m.memory = make(map[string]Level)
	}
	return m
}

// addInput registers from as an input of m.
//
func (m *Module) addInput(from string) {
	m.Inputs = append(m.Inputs, from)
	if m.Kind == Aggregate {
		m.memory[from] = Low
	}
}

// reset restores the construction-time state of m.
//
func (m *Module) reset() {
	m.on = false
	for k := range m.memory {
		m.memory[k] = Low
	}
}

// On reports the state of a Toggle module. It is always false for other
// kinds.
//
func (m *Module) On() bool { return m.on }

// Memory returns the last level an Aggregate module received from input
// from. ok is false if from is not an input of m.
//
func (m *Module) Memory(from string) (l Level, ok bool) {
	l, ok = m.memory[from]
	return l, ok
}

// React delivers a pulse of level in from module from to m, updates the
// state of m and returns the level m sends to every one of its outputs.
// fire is false if m does not send anything.
//
// React panics with an *UnknownUpstreamError if m is an Aggregate and from
// is not one of its inputs.
//
func (m *Module) React(from string, in Level) (out Level, fire bool) {
	switch m.Kind {
	case Toggle:
		if in == High {
			return Low, false
		}
		m.on = !m.on
		return Level(m.on), true
	case Aggregate:
		if _, ok := m.memory[from]; !ok {
			panic(&UnknownUpstreamError{Module: m.Name, From: from})
		}
		m.memory[from] = in
		for _, l := range m.memory {
			if l == Low {
				return High, true
			}
		}
		return Low, true
	}
	return in, true
}
