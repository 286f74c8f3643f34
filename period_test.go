package pulsenet_test

import (
	"math"
	"testing"

	"github.com/db47h/pulsenet"
	"github.com/db47h/pulsenet/netlib"
	"github.com/db47h/pulsenet/pulsetest"
	"github.com/pkg/errors"
)

func TestLCM(t *testing.T) {
	data := []struct {
		periods []int
		lcm     uint64
	}{
		{nil, 1},
		{[]int{7}, 7},
		{[]int{3, 4, 5}, 60},
		{[]int{4, 6}, 12},
		{[]int{3, 9, 3}, 9},
		{[]int{3853, 4073, 4091, 4093}, 262775362119547},
	}
	for _, d := range data {
		l, err := pulsenet.LCM(d.periods...)
		if err != nil {
			t.Errorf("LCM(%v): %v", d.periods, err)
			continue
		}
		if l != d.lcm {
			t.Errorf("LCM(%v) = %d, expected %d", d.periods, l, d.lcm)
		}
	}

	if _, err := pulsenet.LCM(3, 0); err == nil {
		t.Error("expected an error for a zero period")
	}
	if _, err := pulsenet.LCM(math.MaxInt64, math.MaxInt64-1); errors.Cause(err) != pulsenet.ErrOverflow {
		t.Errorf("got %v, expected ErrOverflow", err)
	}
}

func bank(t *testing.T, periods ...int) *pulsenet.Network {
	t.Helper()
	decls, err := netlib.Bank(periods, "rx")
	if err != nil {
		t.Fatal(err)
	}
	n, err := pulsenet.New(decls)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestAnalyzer(t *testing.T) {
	data := []struct {
		periods []int
		index   uint64
	}{
		{[]int{3, 5}, 15},
		{[]int{3, 9}, 9},
		{[]int{3, 7}, 21},
		{[]int{5, 3, 17}, 255},
		{[]int{7, 11, 13}, 1001},
		{[]int{3853, 4073, 4091, 4093}, 262775362119547},
	}
	for _, d := range data {
		n := bank(t, d.periods...)
		// state left over from previous runs must not matter
		n.Run(3)
		a := pulsenet.Analyzer{Verify: true}
		act, err := a.Run(n)
		if err != nil {
			t.Fatalf("%v: %+v", d.periods, err)
		}
		if act.Index != d.index {
			t.Errorf("%v: got index %d, expected %d", d.periods, act.Index, d.index)
		}
		if act.Sink != "rx" || act.Aggregate != netlib.HubName {
			t.Errorf("%v: got sink %s, aggregate %s", d.periods, act.Sink, act.Aggregate)
		}
		for i, p := range d.periods {
			w := netlib.WatchName(netlib.CounterPrefix(i))
			if act.Periods[w] != p {
				t.Errorf("%v: got period %d for %s, expected %d", d.periods, act.Periods[w], w, p)
			}
		}
	}
}

// The sink really does receive its first low pulse at the computed index.
func TestAnalyzer_bruteForce(t *testing.T) {
	n := bank(t, 5, 7)
	act, err := (&pulsenet.Analyzer{Sink: "rx"}).Run(n)
	if err != nil {
		t.Fatal(err)
	}
	n.Reset()
	first := 0
	for first == 0 && n.Triggers() < 100 {
		n.Trigger(func(trigger int, p pulsenet.Pulse) {
			if p.To == "rx" && p.Level == pulsenet.Low && first == 0 {
				first = trigger
			}
		})
	}
	if uint64(first) != act.Index || first != 35 {
		t.Errorf("sink activated at %d, analyzer says %d", first, act.Index)
	}
}

func TestAnalyzer_errors(t *testing.T) {
	data := []struct {
		name  string
		src   string
		a     pulsenet.Analyzer
		cause error
	}{
		{"two_upstreams", "broadcaster -> a, b\n%a -> rx\n%b -> rx", pulsenet.Analyzer{}, pulsenet.ErrStructuralAssumption},
		{"not_aggregate", "broadcaster -> a\n%a -> rx", pulsenet.Analyzer{}, pulsenet.ErrStructuralAssumption},
		{"no_sink", "broadcaster -> a\n%a -> broadcaster", pulsenet.Analyzer{}, pulsenet.ErrStructuralAssumption},
		{"never_high", "broadcaster -> hub\n&hub -> rx", pulsenet.Analyzer{Limit: 10}, pulsenet.ErrNoPeriod},
		// t sends high on odd triggers only: first high at 1, next at 3.
		{"not_periodic", "broadcaster -> t\n%t -> hub\n&hub -> rx", pulsenet.Analyzer{Verify: true}, pulsenet.ErrStructuralAssumption},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			_, err := d.a.Run(pulsetest.MustParse(t, d.src))
			if errors.Cause(err) != d.cause {
				t.Errorf("got error %v, expected cause %v", err, d.cause)
			}
		})
	}
}

func TestAnalyzer_noVerify(t *testing.T) {
	// same network as not_periodic above: without verification the
	// analysis trusts the first high.
	n := pulsetest.MustParse(t, "broadcaster -> t\n%t -> hub\n&hub -> rx")
	act, err := (&pulsenet.Analyzer{}).Run(n)
	if err != nil {
		t.Fatal(err)
	}
	if act.Index != 1 {
		t.Errorf("got index %d, expected 1", act.Index)
	}
}

func TestWatchpoints(t *testing.T) {
	n := pulsetest.MustParse(t, `
		broadcaster -> a, b, a
		%a -> hub
		%b -> hub
		&hub -> rx
	`)
	agg, watch, err := pulsenet.Watchpoints(n, "rx")
	if err != nil {
		t.Fatal(err)
	}
	if agg != "hub" || len(watch) != 2 || watch[0] != "a" || watch[1] != "b" {
		t.Errorf("got %s, %v", agg, watch)
	}
	if _, _, err := pulsenet.Watchpoints(n, "nope"); err == nil {
		t.Error("expected an error for an unknown sink")
	}

	first, err := pulsenet.FirstHighs(n, watch, 0)
	if err != nil {
		t.Fatal(err)
	}
	if first["a"] != 1 || first["b"] != 1 {
		t.Errorf("got %v", first)
	}
}
