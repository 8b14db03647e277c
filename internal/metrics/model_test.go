package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threatmatrix/internal/rng"
)

func testSpec() Spec {
	return Spec{
		Gauges: []GaugeSpec{
			{Name: "cpu", Initial: 73, Min: 60, Max: 100, Delta: 2},
			{Name: "memory", Initial: 58, Min: 50, Max: 100, Delta: 1},
			{Name: "network", Initial: 91, Min: 80, Max: 100, Delta: 1},
			{Name: "threat_level", Initial: 45, Min: 30, Max: 70, Delta: 3},
		},
		BandwidthInitial:  8.7,
		BandwidthCenter:   8.0,
		BandwidthSpread:   0.5,
		HistoryCapacity:   50,
		SampleMin:         20,
		SampleMax:         100,
		PacketsBase:       142000,
		PacketsJitter:     10000,
		ConnectionsBase:   1200,
		ConnectionsJitter: 200,
	}
}

func TestNewModelInitialState(t *testing.T) {
	m := NewModel(testSpec(), rng.New(1))
	cpu, ok := m.Gauge("cpu")
	require.True(t, ok)
	assert.Equal(t, 73.0, cpu.Value)
	assert.Equal(t, 8.7, m.Bandwidth())
	assert.Equal(t, 50, m.History().Len())
	for _, v := range m.History().Values() {
		assert.True(t, v >= 20 && v < 100)
	}
	_, ok = m.Gauge("disk")
	assert.False(t, ok)
}

func TestRefreshKeepsGaugesInBounds(t *testing.T) {
	m := NewModel(testSpec(), rng.New(3))
	for i := 0; i < 10000; i++ {
		m.Refresh()
		for _, g := range m.Gauges() {
			require.True(t, g.Value >= g.Min && g.Value <= g.Max, "%s=%v outside [%v,%v]", g.Name, g.Value, g.Min, g.Max)
		}
	}
}

func TestRefreshClampsAtBounds(t *testing.T) {
	// Always draw the top of the range: every gauge walks up to Max.
	m := NewModel(testSpec(), rng.NewSequence(0.999999))
	for i := 0; i < 100; i++ {
		m.Refresh()
	}
	for _, g := range m.Gauges() {
		assert.Equal(t, g.Max, g.Value, g.Name)
	}

	m = NewModel(testSpec(), rng.NewSequence(0))
	for i := 0; i < 100; i++ {
		m.Refresh()
	}
	for _, g := range m.Gauges() {
		assert.Equal(t, g.Min, g.Value, g.Name)
	}
}

func TestRefreshBandwidthResampled(t *testing.T) {
	m := NewModel(testSpec(), rng.New(5))
	for i := 0; i < 500; i++ {
		m.Refresh()
		bw := m.Bandwidth()
		assert.True(t, bw >= 7.5 && bw <= 8.5, "bandwidth %v", bw)
		assert.Equal(t, math.Round(bw*10)/10, bw)
	}
}

func TestInitialValueClamped(t *testing.T) {
	spec := testSpec()
	spec.Gauges = []GaugeSpec{{Name: "cpu", Initial: 500, Min: 0, Max: 100, Delta: 1}}
	m := NewModel(spec, rng.New(1))
	g, _ := m.Gauge("cpu")
	assert.Equal(t, 100.0, g.Value)
	assert.Equal(t, 1.0, g.Percent())
}

func TestSampleHistoryFIFO(t *testing.T) {
	spec := testSpec()
	spec.HistoryCapacity = 3
	m := NewModel(spec, rng.New(1))
	oldest := m.History().Values()[0]
	m.SampleHistory()
	vals := m.History().Values()
	assert.Len(t, vals, 3)
	assert.NotEqual(t, oldest, vals[0])
}

func TestResetHistoryRefills(t *testing.T) {
	m := NewModel(testSpec(), rng.New(8))
	before := m.History().Values()
	m.ResetHistory()
	after := m.History().Values()
	assert.Len(t, after, 50)
	assert.NotEqual(t, before, after)
}

func TestSampleTraffic(t *testing.T) {
	m := NewModel(testSpec(), rng.New(2))
	for i := 0; i < 200; i++ {
		m.SampleTraffic()
		tr := m.Traffic()
		assert.True(t, tr.Packets >= 142000 && tr.Packets <= 152000)
		assert.True(t, tr.Connections >= 1200 && tr.Connections <= 1400)
	}
}
