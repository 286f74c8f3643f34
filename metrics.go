// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pulsenet

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports pulse traffic as Prometheus metrics.
//
type Metrics struct {
	Pulses   *prometheus.CounterVec
	Triggers prometheus.Counter
}

// NewMetrics creates the pulse metrics and registers them with reg.
//
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Pulses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulsenet",
			Name:      "pulses_total",
			Help:      "Number of pulses delivered, by level.",
		}, []string{"level"}),
		Triggers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pulsenet",
			Name:      "triggers_total",
			Help:      "Number of triggers observed.",
		}),
	}
	for _, c := range []prometheus.Collector{m.Pulses, m.Triggers} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Probe counts p. Every pulse sent by Button starts a new trigger.
//
func (m *Metrics) Probe(_ int, p Pulse) {
	if p.From == Button {
		m.Triggers.Inc()
	}
	m.Pulses.WithLabelValues(p.Level.String()).Inc()
}
