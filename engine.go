// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pulsenet

// Trigger injects a low pulse from Button into the entry module and
// propagates pulses until the network settles. It returns the number of low
// and high pulses delivered, including the initial one.
//
// Pulses are delivered in strict FIFO order: every pulse sent by a module is
// queued behind all pulses already in flight. The probes are called, in
// order, for every pulse right before it is delivered.
//
func (n *Network) Trigger(probes ...Probe) Tally {
	var t Tally
	n.triggers++
	n.q.PushBack(Pulse{From: Button, To: n.entry, Level: Low})
	for n.q.Len() > 0 {
		p := n.q.PopFront()
		t.count(p.Level)
		for _, pr := range probes {
			pr(n.triggers, p)
		}
		m := n.modules[p.To]
		out, fire := m.React(p.From, p.Level)
		if !fire {
			continue
		}
		for _, o := range m.Outputs {
			n.q.PushBack(Pulse{From: m.Name, To: o, Level: out})
		}
	}
	return t
}

// TriggerLog runs a single trigger and returns the pulses it delivered, in
// delivery order, together with their tally.
//
func (n *Network) TriggerLog() ([]Pulse, Tally) {
	var r Recorder
	t := n.Trigger(r.Probe)
	return r.Pulses, t
}

// Run runs count triggers in sequence and returns the sum of their tallies.
//
func (n *Network) Run(count int, probes ...Probe) Tally {
	var t Tally
	for i := 0; i < count; i++ {
		t.Add(n.Trigger(probes...))
	}
	return t
}
