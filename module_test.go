package pulsenet_test

import (
	"testing"

	"github.com/db47h/pulsenet"
	"github.com/db47h/pulsenet/pulsetest"
)

type reaction struct {
	from string
	in   pulsenet.Level
	out  pulsenet.Level
	fire bool
}

func checkReactions(t *testing.T, m *pulsenet.Module, rs []reaction) {
	t.Helper()
	for i, r := range rs {
		out, fire := m.React(r.from, r.in)
		if fire != r.fire || fire && out != r.out {
			t.Errorf("%s: step %d: %s from %s: got %v, %v, expected %v, %v", m.Name, i, r.in, r.from, out, fire, r.out, r.fire)
		}
	}
}

const fanIn = `
	broadcaster -> A, B, t
	A -> c
	B -> c
	&c -> out
	%t -> out
`

func TestModule_React_relay(t *testing.T) {
	m, _ := pulsetest.MustParse(t, fanIn).Module("A")
	checkReactions(t, m, []reaction{
		{"broadcaster", lo, lo, true},
		{"broadcaster", hi, hi, true},
		{"broadcaster", lo, lo, true},
	})
}

func TestModule_React_toggle(t *testing.T) {
	m, _ := pulsetest.MustParse(t, fanIn).Module("t")
	checkReactions(t, m, []reaction{
		{"broadcaster", hi, lo, false},
		{"broadcaster", lo, hi, true},
	})
	if !m.On() {
		t.Error("toggle should be on after one low pulse")
	}
	checkReactions(t, m, []reaction{
		{"broadcaster", hi, lo, false},
		{"broadcaster", lo, lo, true},
	})
	if m.On() {
		t.Error("toggle should be back off after two low pulses")
	}
}

func TestModule_React_aggregate(t *testing.T) {
	m, _ := pulsetest.MustParse(t, fanIn).Module("c")
	checkReactions(t, m, []reaction{
		{"A", hi, hi, true},
		{"B", hi, lo, true},
		{"A", lo, hi, true},
		{"B", lo, hi, true},
		{"A", hi, hi, true},
		{"B", hi, lo, true},
		{"B", hi, lo, true},
	})
	if l, _ := m.Memory("A"); l != hi {
		t.Errorf("got memory %v for A, expected high", l)
	}
}

func TestModule_React_unknownUpstream(t *testing.T) {
	m, _ := pulsetest.MustParse(t, fanIn).Module("c")
	defer func() {
		r := recover()
		e, ok := r.(*pulsenet.UnknownUpstreamError)
		if !ok {
			t.Fatalf("got panic value %v (%T), expected *UnknownUpstreamError", r, r)
		}
		if e.Module != "c" || e.From != "t" {
			t.Errorf("got %+v", e)
		}
	}()
	m.React("t", hi)
}

func TestKind(t *testing.T) {
	data := []struct {
		k      pulsenet.Kind
		name   string
		prefix string
	}{
		{pulsenet.Relay, "relay", ""},
		{pulsenet.Toggle, "toggle", "%"},
		{pulsenet.Aggregate, "aggregate", "&"},
	}
	for _, d := range data {
		if d.k.String() != d.name || d.k.Prefix() != d.prefix {
			t.Errorf("got %q, %q, expected %q, %q", d.k, d.k.Prefix(), d.name, d.prefix)
		}
	}
}
