// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pulsenet

// A Probe observes the pulses delivered in a network. trigger is the 1-based
// index of the trigger the pulse belongs to.
//
// Probes must not modify the network.
//
type Probe func(trigger int, p Pulse)

// Recorder is a probe that records pulses.
//
type Recorder struct {
	Pulses []Pulse
}

// Probe appends p to r.Pulses.
//
func (r *Recorder) Probe(_ int, p Pulse) {
	r.Pulses = append(r.Pulses, p)
}

// Reset empties r.
//
func (r *Recorder) Reset() {
	r.Pulses = r.Pulses[:0]
}

// HighFrom returns a probe that calls f the first time each of the named
// modules sends a high pulse during a trigger. The same module may be
// reported again in later triggers.
//
func HighFrom(f func(trigger int, name string), names ...string) Probe {
	watch := make(map[string]int, len(names))
	for _, n := range names {
		watch[n] = 0
	}
	return func(trigger int, p Pulse) {
		if p.Level != High {
			return
		}
		last, ok := watch[p.From]
		if !ok || last == trigger {
			return
		}
		watch[p.From] = trigger
		f(trigger, p.From)
	}
}
