// Package observability exposes match activity as Prometheus metrics.
package observability

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/blockduel/internal/games/duel/attack"
)

const namespace = "blockduel"

// Metrics implements match.Telemetry on a private registry, so several
// matches in one process (or one test binary) never collide.
type Metrics struct {
	reg *prometheus.Registry

	tableHits      prometheus.Counter
	fallbacks      prometheus.Counter
	degraded       prometheus.Gauge
	enqueued       *prometheus.CounterVec
	unitsLanded    *prometheus.CounterVec
	unitsConverted *prometheus.CounterVec
	overflows      prometheus.Counter
	dropped        prometheus.Counter
	finished       *prometheus.CounterVec
}

// NewMetrics creates and registers every collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		tableHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attack_table_hits_total",
			Help:      "Combos priced by an exact rule table entry.",
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attack_fallback_total",
			Help:      "Combos priced by the formula fallback.",
		}),
		degraded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "attack_rule_table_degraded",
			Help:      "1 when the rule table failed to load and only the formula is in use.",
		}),
		enqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payload_enqueued_total",
			Help:      "Payloads queued for delivery.",
		}, []string{"kind"}),
		unitsLanded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payload_units_landed_total",
			Help:      "Column units placed on a grid.",
		}, []string{"kind"}),
		unitsConverted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payload_units_converted_total",
			Help:      "Interference units that turned into normal blocks.",
		}, []string{"kind"}),
		overflows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payload_overflow_total",
			Help:      "Deliveries that could not place every unit.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payload_dropped_total",
			Help:      "Payloads discarded after repeated overflow.",
		}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_finished_total",
			Help:      "Finished matches by end reason.",
		}, []string{"reason"}),
	}
	m.reg.MustRegister(
		m.tableHits, m.fallbacks, m.degraded,
		m.enqueued, m.unitsLanded, m.unitsConverted,
		m.overflows, m.dropped, m.finished,
	)
	return m
}

func (m *Metrics) AttackResolved(source string) {
	if source == attack.SourceTable.String() {
		m.tableHits.Inc()
		return
	}
	m.fallbacks.Inc()
}

func (m *Metrics) RuleTableDegraded(degraded bool) {
	if degraded {
		m.degraded.Set(1)
		return
	}
	m.degraded.Set(0)
}

func (m *Metrics) PayloadEnqueued(kind string) {
	m.enqueued.WithLabelValues(kind).Inc()
}

func (m *Metrics) UnitsLanded(kind string, n int) {
	m.unitsLanded.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) UnitConverted(kind string) {
	m.unitsConverted.WithLabelValues(kind).Inc()
}

func (m *Metrics) PlacementOverflow() { m.overflows.Inc() }
func (m *Metrics) PayloadDropped()    { m.dropped.Inc() }

func (m *Metrics) MatchFinished(reason string) {
	m.finished.WithLabelValues(reason).Inc()
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Summary returns one "name{labels} value" line per non-zero sample,
// sorted, for printing after a headless run.
func (m *Metrics) Summary() ([]string, error) {
	families, err := m.reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	var lines []string
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			var v float64
			switch {
			case metric.GetCounter() != nil:
				v = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				v = metric.GetGauge().GetValue()
			}
			if v == 0 {
				continue
			}
			name := mf.GetName()
			if labels := metric.GetLabel(); len(labels) > 0 {
				parts := make([]string, len(labels))
				for i, l := range labels {
					parts[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
				}
				name += "{" + strings.Join(parts, ",") + "}"
			}
			lines = append(lines, fmt.Sprintf("%s %g", name, v))
		}
	}
	sort.Strings(lines)
	return lines, nil
}
