// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pulsenet

// Level is the level of a pulse.
//
type Level bool

// Pulse levels.
//
const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// Button is the name of the virtual actor that injects the initial low pulse
// of every trigger into the entry module.
//
const Button = "button"

// A Pulse is a level carried along one directed edge of a network.
//
type Pulse struct {
	From  string
	To    string
	Level Level
}

func (p Pulse) String() string {
	return p.From + " -" + p.Level.String() + "-> " + p.To
}

// Tally counts the pulses delivered during one or more triggers.
//
type Tally struct {
	Low  int
	High int
}

// Add adds the counts of o to t.
//
func (t *Tally) Add(o Tally) {
	t.Low += o.Low
	t.High += o.High
}

// Product returns t.Low * t.High.
//
func (t Tally) Product() int {
	return t.Low * t.High
}

func (t *Tally) count(l Level) {
	if l == High {
		t.High++
	} else {
		t.Low++
	}
}
