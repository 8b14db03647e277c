// Package metrics holds the synthetic system-load gauges, the bandwidth
// reading, the traffic overlay and the rolling history behind the bar graph.
package metrics

import (
	"math"

	"threatmatrix/internal/rng"
)

// GaugeSpec configures one random-walk gauge.
type GaugeSpec struct {
	Name    string
	Initial float64
	Min     float64
	Max     float64
	Delta   float64
}

// Gauge is a bounded scalar evolved by a random walk.
type Gauge struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Delta float64 `json:"-"`
}

// Percent returns the value as a fraction of Max, for bar rendering.
func (g Gauge) Percent() float64 {
	if g.Max <= 0 {
		return 0
	}
	return g.Value / g.Max
}

// Traffic is the packet/connection overlay of the network field.
type Traffic struct {
	Packets     int `json:"packets"`
	Connections int `json:"connections"`
}

// Spec configures a Model.
type Spec struct {
	Gauges            []GaugeSpec
	BandwidthInitial  float64
	BandwidthCenter   float64
	BandwidthSpread   float64
	HistoryCapacity   int
	SampleMin         float64
	SampleMax         float64
	PacketsBase       int
	PacketsJitter     int
	ConnectionsBase   int
	ConnectionsJitter int
}

// Model owns the gauges, bandwidth, traffic overlay and history.
type Model struct {
	spec      Spec
	src       rng.Source
	gauges    []Gauge
	bandwidth float64
	traffic   Traffic
	history   *History
}

// NewModel builds a model with initial gauge values and a full history.
func NewModel(spec Spec, src rng.Source) *Model {
	m := &Model{
		spec:      spec,
		src:       src,
		bandwidth: spec.BandwidthInitial,
		history:   NewHistory(spec.HistoryCapacity),
	}
	for _, gs := range spec.Gauges {
		m.gauges = append(m.gauges, Gauge{
			Name:  gs.Name,
			Value: clamp(gs.Initial, gs.Min, gs.Max),
			Min:   gs.Min,
			Max:   gs.Max,
			Delta: gs.Delta,
		})
	}
	m.ResetHistory()
	m.SampleTraffic()
	return m
}

// Refresh perturbs every gauge within its bounds and redraws bandwidth.
func (m *Model) Refresh() {
	for i := range m.gauges {
		g := &m.gauges[i]
		g.Value = clamp(g.Value+rng.Uniform(m.src, -g.Delta, g.Delta), g.Min, g.Max)
	}
	bw := m.spec.BandwidthCenter + rng.Uniform(m.src, -m.spec.BandwidthSpread, m.spec.BandwidthSpread)
	m.bandwidth = math.Round(bw*10) / 10
}

// SampleHistory appends one fresh sample to the history.
func (m *Model) SampleHistory() {
	m.history.Push(m.sample())
}

// ResetHistory refills the history with capacity fresh samples.
func (m *Model) ResetHistory() {
	vals := make([]float64, m.history.Cap())
	for i := range vals {
		vals[i] = m.sample()
	}
	m.history.Reset(vals)
}

// SampleTraffic redraws the packet and connection overlay.
func (m *Model) SampleTraffic() {
	m.traffic = Traffic{
		Packets:     m.spec.PacketsBase + jitter(m.src, m.spec.PacketsJitter),
		Connections: m.spec.ConnectionsBase + jitter(m.src, m.spec.ConnectionsJitter),
	}
}

func (m *Model) sample() float64 {
	return rng.Uniform(m.src, m.spec.SampleMin, m.spec.SampleMax)
}

// Gauges returns a copy of the gauges in configured order.
func (m *Model) Gauges() []Gauge {
	return append([]Gauge(nil), m.gauges...)
}

// Gauge looks a gauge up by name.
func (m *Model) Gauge(name string) (Gauge, bool) {
	for _, g := range m.gauges {
		if g.Name == name {
			return g, true
		}
	}
	return Gauge{}, false
}

// Bandwidth returns the last bandwidth reading.
func (m *Model) Bandwidth() float64 { return m.bandwidth }

// Traffic returns the last traffic overlay.
func (m *Model) Traffic() Traffic { return m.traffic }

// History exposes the sample series.
func (m *Model) History() *History { return m.history }

func jitter(src rng.Source, n int) int {
	if n <= 0 {
		return 0
	}
	return src.Intn(n + 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
