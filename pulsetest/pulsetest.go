// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package pulsetest provides utility functions for testing networks.
//
package pulsetest

import (
	"strings"
	"testing"

	"github.com/db47h/pulsenet"
	"github.com/google/go-cmp/cmp"
)

// Lines splits src into lines, dropping surrounding white space and blank
// lines.
//
func Lines(src string) []string {
	var out []string
	for _, l := range strings.Split(src, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// MustParse builds a network from src, one declaration per line, and fails
// the test on error.
//
func MustParse(t testing.TB, src string, opts ...pulsenet.Option) *pulsenet.Network {
	t.Helper()
	n, err := pulsenet.Parse(Lines(src), opts...)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	return n
}

// Replay builds two networks from src, runs the given number of triggers on
// both and checks that they deliver the same pulses in the same order.
//
func Replay(t testing.TB, src string, triggers int) {
	t.Helper()
	n1, n2 := MustParse(t, src), MustParse(t, src)
	for i := 1; i <= triggers; i++ {
		l1, t1 := n1.TriggerLog()
		l2, t2 := n2.TriggerLog()
		if diff := cmp.Diff(l1, l2); diff != "" {
			t.Fatalf("trigger %d: pulse logs differ (-first +second):\n%s", i, diff)
		}
		if t1 != t2 {
			t.Fatalf("trigger %d: tallies differ: %+v != %+v", i, t1, t2)
		}
	}
}

// CompareRuns checks that Run(triggers) on a fresh network from src returns
// the sum of the tallies of as many individual triggers on another fresh
// network, and that both networks end up in the same state. It returns the
// total tally.
//
func CompareRuns(t testing.TB, src string, triggers int) pulsenet.Tally {
	t.Helper()
	n1, n2 := MustParse(t, src), MustParse(t, src)
	total := n1.Run(triggers)
	var sum pulsenet.Tally
	for i := 0; i < triggers; i++ {
		sum.Add(n2.Trigger())
	}
	if total != sum {
		t.Fatalf("Run(%d) = %+v, sum of triggers = %+v", triggers, total, sum)
	}
	if n1.Triggers() != n2.Triggers() {
		t.Fatalf("trigger counters differ: %d != %d", n1.Triggers(), n2.Triggers())
	}
	// one more trigger must behave the same on both
	l1, _ := n1.TriggerLog()
	l2, _ := n2.TriggerLog()
	if diff := cmp.Diff(l1, l2); diff != "" {
		t.Fatalf("networks diverge after %d triggers (-Run +Trigger):\n%s", triggers, diff)
	}
	return total
}
