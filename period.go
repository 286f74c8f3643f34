// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pulsenet

import (
	"io"
	"math/bits"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultLimit is the default maximum number of triggers FirstHighs and the
// Analyzer run before giving up.
//
const DefaultLimit = 1 << 20

// Watchpoints checks that sink has exactly one upstream module and that this
// module is an Aggregate. It returns the name of that aggregate and its
// distinct inputs, the watchpoints, in input order.
//
// A network that does not have this shape yields an error whose cause is
// ErrStructuralAssumption.
//
func Watchpoints(n *Network, sink string) (agg string, watch []string, err error) {
	m, ok := n.Module(sink)
	if !ok {
		return "", nil, errors.Errorf("sink module %q not found", sink)
	}
	ups := distinct(m.Inputs)
	if len(ups) != 1 {
		return "", nil, errors.Wrapf(ErrStructuralAssumption, "sink %s has %d upstream modules, expected 1", sink, len(ups))
	}
	up := n.modules[ups[0]]
	if up.Kind != Aggregate {
		return "", nil, errors.Wrapf(ErrStructuralAssumption, "upstream module %s of sink %s is a %v, expected an aggregate", up.Name, sink, up.Kind)
	}
	return up.Name, distinct(up.Inputs), nil
}

func distinct(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// FirstHighs runs triggers on n until every module in watch has sent a high
// pulse, and returns for each of them the index of the first trigger during
// which it did. Indices are those reported by n.Triggers, so callers usually
// Reset n first.
//
// It gives up with an error whose cause is ErrNoPeriod after limit triggers.
// If limit <= 0, DefaultLimit is used.
//
func FirstHighs(n *Network, watch []string, limit int) (map[string]int, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	watch = distinct(watch)
	first := make(map[string]int, len(watch))
	probe := HighFrom(func(trigger int, name string) {
		if _, ok := first[name]; !ok {
			first[name] = trigger
		}
	}, watch...)
	for i := 0; i < limit && len(first) < len(watch); i++ {
		n.Trigger(probe)
	}
	if len(first) < len(watch) {
		var missing []string
		for _, w := range watch {
			if _, ok := first[w]; !ok {
				missing = append(missing, w)
			}
		}
		sort.Strings(missing)
		return nil, errors.Wrapf(ErrNoPeriod, "no high pulse from %s after %d triggers", strings.Join(missing, ", "), limit)
	}
	return first, nil
}

// LCM returns the least common multiple of periods. It returns 1 if periods
// is empty.
//
func LCM(periods ...int) (uint64, error) {
	l := uint64(1)
	for _, p := range periods {
		if p <= 0 {
			return 0, errors.Errorf("invalid period %d", p)
		}
		q := uint64(p)
		hi, lo := bits.Mul64(l/gcd(l, q), q)
		if hi != 0 {
			return 0, errors.WithStack(ErrOverflow)
		}
		l = lo
	}
	return l, nil
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Activation is the result of a periodicity analysis.
//
type Activation struct {
	Sink      string
	Aggregate string         // sole upstream module of the sink
	Periods   map[string]int // first high trigger of each watchpoint
	Index     uint64         // first trigger at which the sink receives a low pulse
}

// Analyzer finds the first trigger at which the sink of a network receives a
// low pulse without simulating that many triggers.
//
// The sink must have a single upstream Aggregate. The inputs of that
// aggregate are the watchpoints. The analysis assumes that each watchpoint
// behaves like a binary counter: it sends high during trigger p, 2p, 3p, ...
// where p is the index of its first high, and that the sink's aggregate only
// sends low when all watchpoints are high within the same trigger. The
// activation index is then the least common multiple of all p.
//
// This assumption is a precondition on the input network. It is not checked
// unless Verify is set.
//
type Analyzer struct {
	// Sink is the name of the sink module. If empty, the single module
	// without outputs is used.
	Sink string
	// Limit is the maximum number of triggers to run. DefaultLimit is used
	// if Limit <= 0.
	Limit int
	// Verify runs more triggers to check that every watchpoint fires again
	// at twice its first index.
	Verify bool
	// Log receives debug messages. Logging is disabled if nil.
	Log logrus.FieldLogger
}

func (a *Analyzer) logger() logrus.FieldLogger {
	if a.Log != nil {
		return a.Log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (a *Analyzer) limit() int {
	if a.Limit <= 0 {
		return DefaultLimit
	}
	return a.Limit
}

// Run resets n and runs the analysis on it. n is left in the state reached
// after the last trigger the analysis needed.
//
func (a *Analyzer) Run(n *Network) (*Activation, error) {
	log := a.logger()
	sink := a.Sink
	if sink == "" {
		s, err := n.Sink()
		if err != nil {
			return nil, errors.Wrap(err, "locate sink")
		}
		sink = s
	}
	agg, watch, err := Watchpoints(n, sink)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"sink": sink, "aggregate": agg, "watchpoints": len(watch)}).Debug("watchpoints found")

	n.Reset()
	periods, err := FirstHighs(n, watch, a.limit())
	if err != nil {
		return nil, err
	}
	ps := make([]int, len(watch))
	for i, w := range watch {
		ps[i] = periods[w]
		log.WithFields(logrus.Fields{"watchpoint": w, "period": ps[i]}).Debug("period found")
	}

	if a.Verify {
		if err := a.verify(n, periods); err != nil {
			return nil, err
		}
	}

	idx, err := LCM(ps...)
	if err != nil {
		return nil, err
	}
	log.WithField("index", idx).Debug("activation index computed")
	return &Activation{Sink: sink, Aggregate: agg, Periods: periods, Index: idx}, nil
}

// verify resets n and runs triggers until every watchpoint has sent high a
// second time, then checks that it did at twice its first index. Replaying
// from the start catches second highs that happen before the last first high.
//
func (a *Analyzer) verify(n *Network, periods map[string]int) error {
	var names []string
	end := 0
	for w, p := range periods {
		names = append(names, w)
		if 2*p > end {
			end = 2 * p
		}
	}
	sort.Strings(names)
	if end > a.limit() {
		return errors.Wrapf(ErrNoPeriod, "verification needs %d triggers, limit is %d", end, a.limit())
	}

	n.Reset()
	second := make(map[string]int, len(periods))
	probe := HighFrom(func(trigger int, name string) {
		if _, ok := second[name]; !ok && trigger > periods[name] {
			second[name] = trigger
		}
	}, names...)
	for n.Triggers() < end && len(second) < len(periods) {
		n.Trigger(probe)
	}

	for _, w := range names {
		p := periods[w]
		s, ok := second[w]
		if !ok || s != 2*p {
			return errors.Wrapf(ErrStructuralAssumption, "watchpoint %s is not periodic: first high at trigger %d, next at %d", w, p, s)
		}
	}
	return nil
}
