// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package netlib provides generators for common pulsenet networks.
//
// Copyright 2018 Denis Bernard <db047h@gmail.com>
//
// This package is licensed under the MIT license. See license text in the LICENSE file.
//
package netlib

import (
	"math/bits"
	"strconv"

	"github.com/db47h/pulsenet"
	"github.com/pkg/errors"
)

// MaxBits is the maximum width of a counter.
//
const MaxBits = 62

// ToggleName returns the name of the toggle holding the given bit of the
// counter with the given prefix.
//
func ToggleName(prefix string, bit int) string { return prefix + "_" + strconv.Itoa(bit) }

// ResetName returns the name of the aggregate that resets the counter with
// the given prefix.
//
func ResetName(prefix string) string { return prefix + "_r" }

// WatchName returns the name of the inverter of the counter with the given
// prefix: the module that sends high once every period.
//
func WatchName(prefix string) string { return prefix + "_w" }

// Counter returns the declarations of a binary counter that sends a high
// pulse to out during trigger period, 2*period, 3*period, ...
//
// The counter is a chain of toggles, one per bit of period up to its highest
// set bit, where each toggle feeds the next one. The toggles matching the set
// bits of period feed a reset aggregate; once they are all on, the aggregate sends low to
// its inverter and to the toggles matching the clear bits and bit 0, which
// rolls the counter back to zero within the same trigger. The inverter turns
// this into a high pulse to out.
//
// Its input is ToggleName(prefix, 0), which expects one low pulse per
// trigger. period must be odd and within [3, 1<<MaxBits).
//
//	Inputs: prefix_0
//	Outputs: out
//
func Counter(prefix string, period int, out string) ([]pulsenet.Decl, error) {
	if period < 3 || uint64(period) >= 1<<MaxBits {
		return nil, errors.Errorf("counter %s: period %d out of range [3, 1<<%d)", prefix, period, MaxBits)
	}
	if period&1 == 0 {
		return nil, errors.Errorf("counter %s: period %d is even", prefix, period)
	}

	width := bits.Len(uint(period))
	reset, watch := ResetName(prefix), WatchName(prefix)
	decls := make([]pulsenet.Decl, 0, width+2)
	var resets []string
	for i := 0; i < width; i++ {
		var outs []string
		if i+1 < width {
			outs = append(outs, ToggleName(prefix, i+1))
		}
		set := period&(1<<uint(i)) != 0
		if set {
			outs = append(outs, reset)
		}
		if !set || i == 0 {
			resets = append(resets, ToggleName(prefix, i))
		}
		decls = append(decls, pulsenet.Decl{Kind: pulsenet.Toggle, Name: ToggleName(prefix, i), Outputs: outs})
	}
	decls = append(decls,
		pulsenet.Decl{Kind: pulsenet.Aggregate, Name: reset, Outputs: append(resets, watch)},
		pulsenet.Decl{Kind: pulsenet.Aggregate, Name: watch, Outputs: []string{out}},
	)
	return decls, nil
}

// HubName is the name of the aggregate that joins the counters of a bank.
//
const HubName = "hub"

// CounterPrefix returns the prefix of the i-th counter of a bank.
//
func CounterPrefix(i int) string { return "k" + strconv.Itoa(i) }

// Bank returns the declarations of a network made of one counter per period,
// all driven by the default entry module. The counters' inverters feed a
// single aggregate that sends to sink. sink first receives a low pulse during
// the trigger whose index is the least common multiple of the periods.
//
func Bank(periods []int, sink string) ([]pulsenet.Decl, error) {
	if len(periods) == 0 {
		return nil, errors.New("empty counter bank")
	}
	entry := pulsenet.Decl{Kind: pulsenet.Relay, Name: pulsenet.DefaultEntry}
	decls := []pulsenet.Decl{entry}
	for i, p := range periods {
		prefix := CounterPrefix(i)
		c, err := Counter(prefix, p, HubName)
		if err != nil {
			return nil, err
		}
		decls[0].Outputs = append(decls[0].Outputs, ToggleName(prefix, 0))
		decls = append(decls, c...)
	}
	decls = append(decls, pulsenet.Decl{Kind: pulsenet.Aggregate, Name: HubName, Outputs: []string{sink}})
	return decls, nil
}

// Lines renders decls in the text format accepted by pulsenet.Parse.
//
func Lines(decls []pulsenet.Decl) []string {
	lines := make([]string, len(decls))
	for i, d := range decls {
		lines[i] = d.String()
	}
	return lines
}
