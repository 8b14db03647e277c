// Package config loads the dashboard configuration: YAML merged over
// Default, checked against a CUE schema and then by Validate.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"threatmatrix/internal/control"
	"threatmatrix/internal/eventlog"
	"threatmatrix/internal/metrics"
	"threatmatrix/internal/particle"
)

// ErrInvalid wraps every semantic validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Viewport is the particle field size in world units.
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Particles configures batch generation and proximity links.
type Particles struct {
	Count         int     `yaml:"count"`
	Speed         float64 `yaml:"speed"`
	SizeMin       float64 `yaml:"size_min"`
	SizeMax       float64 `yaml:"size_max"`
	PhaseStep     float64 `yaml:"phase_step"`
	LinkThreshold float64 `yaml:"link_threshold"`
}

// Cadence holds frame intervals of the periodic updates.
type Cadence struct {
	Metrics int `yaml:"metrics"`
	Log     int `yaml:"log"`
	History int `yaml:"history"`
}

// Gauge configures one metric gauge.
type Gauge struct {
	Name    string  `yaml:"name"`
	Initial float64 `yaml:"initial"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Delta   float64 `yaml:"delta"`
}

// Bandwidth configures the derived bandwidth reading.
type Bandwidth struct {
	Initial float64 `yaml:"initial"`
	Center  float64 `yaml:"center"`
	Spread  float64 `yaml:"spread"`
}

// History configures the bar graph series.
type History struct {
	Capacity  int     `yaml:"capacity"`
	SampleMin float64 `yaml:"sample_min"`
	SampleMax float64 `yaml:"sample_max"`
}

// Traffic configures the packets and connections overlay.
type Traffic struct {
	PacketsBase       int `yaml:"packets_base"`
	PacketsJitter     int `yaml:"packets_jitter"`
	ConnectionsBase   int `yaml:"connections_base"`
	ConnectionsJitter int `yaml:"connections_jitter"`
}

// Stats are the static figures of the stats grid.
type Stats struct {
	ActiveNodes int     `yaml:"active_nodes"`
	Uptime      float64 `yaml:"uptime"`
}

// LogLine is a severity and message pair.
type LogLine struct {
	Severity string `yaml:"severity"`
	Message  string `yaml:"message"`
}

// Log configures the event log.
type Log struct {
	Capacity int       `yaml:"capacity"`
	Catalog  []LogLine `yaml:"catalog"`
	Boot     []LogLine `yaml:"boot"`
}

// Region is a control hit box in terminal cells.
type Region struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Control configures one button of the left panel.
type Control struct {
	Action   string `yaml:"action"`
	Label    string `yaml:"label"`
	AltLabel string `yaml:"alt_label,omitempty"`
	Region   Region `yaml:"region"`
}

// Alert is one row of the static threat feed.
type Alert struct {
	Severity string `yaml:"severity"`
	Threat   string `yaml:"threat"`
	Age      string `yaml:"age"`
}

// Config is the root configuration.
type Config struct {
	FPS       int       `yaml:"fps"`
	Viewport  Viewport  `yaml:"viewport"`
	Particles Particles `yaml:"particles"`
	Cadence   Cadence   `yaml:"cadence"`
	Gauges    []Gauge   `yaml:"gauges"`
	Bandwidth Bandwidth `yaml:"bandwidth"`
	History   History   `yaml:"history"`
	Traffic   Traffic   `yaml:"traffic"`
	Stats     Stats     `yaml:"stats"`
	Log       Log       `yaml:"log"`
	Controls  []Control `yaml:"controls"`
	Alerts    []Alert   `yaml:"alerts"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FPS:      60,
		Viewport: Viewport{Width: 700, Height: 540},
		Particles: Particles{
			Count:         60,
			Speed:         1.5,
			SizeMin:       2,
			SizeMax:       5,
			PhaseStep:     0.05,
			LinkThreshold: 150,
		},
		Cadence: Cadence{Metrics: 60, Log: 180, History: 1},
		Gauges: []Gauge{
			{Name: "cpu", Initial: 73, Min: 60, Max: 100, Delta: 2},
			{Name: "memory", Initial: 58, Min: 50, Max: 100, Delta: 1},
			{Name: "network", Initial: 91, Min: 80, Max: 100, Delta: 1},
			{Name: "threat_level", Initial: 45, Min: 30, Max: 70, Delta: 3},
		},
		Bandwidth: Bandwidth{Initial: 8.7, Center: 8.0, Spread: 0.5},
		History:   History{Capacity: 50, SampleMin: 20, SampleMax: 100},
		Traffic: Traffic{
			PacketsBase:       142000,
			PacketsJitter:     10000,
			ConnectionsBase:   1200,
			ConnectionsJitter: 200,
		},
		Stats: Stats{ActiveNodes: 152, Uptime: 99.2},
		Log: Log{
			Capacity: 8,
			Catalog:  linesFrom(eventlog.DefaultCatalog),
			Boot: []LogLine{
				{Severity: "critical", Message: "▲ CRITICAL: Malware signature detected on Node 47"},
				{Severity: "normal", Message: "◆ System initiated isolation protocol"},
				{Severity: "warning", Message: "▼ WARNING: Lateral movement detected"},
				{Severity: "info", Message: "◈ INFO: Firewall rules updated"},
				{Severity: "normal", Message: "◆ Network traffic analysis in progress..."},
			},
		},
		Controls: []Control{
			{Action: "reset_particles", Label: "▶ INITIALIZE SCAN", Region: Region{X: 1, Y: 12, W: 28, H: 3}},
			{Action: "toggle_pause", Label: "⏸ PAUSE MONITORING", AltLabel: "▶ RESUME MONITORING", Region: Region{X: 1, Y: 15, W: 28, H: 3}},
			{Action: "quarantine", Label: "🛡 QUARANTINE THREATS", Region: Region{X: 1, Y: 18, W: 28, H: 3}},
			{Action: "full_reset", Label: "↻ SYSTEM RESET", Region: Region{X: 1, Y: 21, W: 28, H: 3}},
		},
		Alerts: []Alert{
			{Severity: "critical", Threat: "TROJAN.RANSOMWARE.X7", Age: "2m ago"},
			{Severity: "critical", Threat: "WORM.PROPAGATE.Z4", Age: "2m ago"},
			{Severity: "warning", Threat: "SUSPICIOUS TRAFFIC", Age: "2m ago"},
			{Severity: "info", Threat: "PORT SCAN DETECTED", Age: "2m ago"},
		},
	}
}

func linesFrom(templates []eventlog.Template) []LogLine {
	out := make([]LogLine, len(templates))
	for i, t := range templates {
		out[i] = LogLine{Severity: t.Severity.String(), Message: t.Message}
	}
	return out
}

// Load reads path, validates it against the CUE schema (the embedded one
// when schemaPath is empty) and merges it over Default. An empty path
// yields the defaults.
func Load(path, schemaPath string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := ValidateWithCue(path, data, schemaPath); err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks the semantic constraints the schema cannot express.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.FPS <= 0 {
		bad("fps must be positive, got %d", c.FPS)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		bad("viewport must be positive, got %gx%g", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Particles.Count < 0 {
		bad("particles.count must not be negative")
	}
	if c.Particles.Speed < 0 {
		bad("particles.speed must not be negative")
	}
	if c.Particles.SizeMin > c.Particles.SizeMax {
		bad("particles.size_min %g exceeds size_max %g", c.Particles.SizeMin, c.Particles.SizeMax)
	}
	if c.Cadence.Metrics <= 0 || c.Cadence.Log <= 0 || c.Cadence.History <= 0 {
		bad("cadences must be positive")
	}
	seen := map[string]bool{}
	for _, g := range c.Gauges {
		if g.Name == "" {
			bad("gauge without name")
		}
		if seen[g.Name] {
			bad("duplicate gauge %q", g.Name)
		}
		seen[g.Name] = true
		if g.Min > g.Max {
			bad("gauge %q: min %g exceeds max %g", g.Name, g.Min, g.Max)
		}
		if g.Delta < 0 {
			bad("gauge %q: negative delta", g.Name)
		}
	}
	if c.History.Capacity <= 0 {
		bad("history.capacity must be positive")
	}
	if c.History.SampleMin > c.History.SampleMax {
		bad("history.sample_min exceeds sample_max")
	}
	if c.Traffic.PacketsJitter < 0 || c.Traffic.ConnectionsJitter < 0 {
		bad("traffic jitter must not be negative")
	}
	if c.Log.Capacity <= 0 {
		bad("log.capacity must be positive")
	}
	if len(c.Log.Catalog) == 0 {
		bad("log.catalog must not be empty")
	}
	for _, l := range append(append([]LogLine{}, c.Log.Catalog...), c.Log.Boot...) {
		if _, err := eventlog.ParseSeverity(l.Severity); err != nil {
			bad("log: %v", err)
		}
	}
	for i, ctl := range c.Controls {
		if _, err := control.ParseAction(ctl.Action); err != nil {
			bad("controls[%d]: %v", i, err)
		}
		if ctl.Region.W <= 0 || ctl.Region.H <= 0 || ctl.Region.X < 0 || ctl.Region.Y < 0 {
			bad("controls[%d]: region must have non-negative origin and positive size", i)
		}
	}
	for i, a := range c.Alerts {
		if _, err := eventlog.ParseSeverity(a.Severity); err != nil {
			bad("alerts[%d]: %v", i, err)
		}
	}
	return errors.Join(errs...)
}

// World returns the particle bounds.
func (c Config) World() particle.World {
	return particle.World{Width: c.Viewport.Width, Height: c.Viewport.Height, PhaseStep: c.Particles.PhaseStep}
}

// ParticleSpec returns the batch generation parameters.
func (c Config) ParticleSpec() particle.Spec {
	p := c.Particles
	return particle.Spec{Count: p.Count, Speed: p.Speed, SizeMin: p.SizeMin, SizeMax: p.SizeMax}
}

// MetricsSpec returns the metrics model parameters.
func (c Config) MetricsSpec() metrics.Spec {
	gauges := make([]metrics.GaugeSpec, len(c.Gauges))
	for i, g := range c.Gauges {
		gauges[i] = metrics.GaugeSpec{Name: g.Name, Initial: g.Initial, Min: g.Min, Max: g.Max, Delta: g.Delta}
	}
	return metrics.Spec{
		Gauges:            gauges,
		BandwidthInitial:  c.Bandwidth.Initial,
		BandwidthCenter:   c.Bandwidth.Center,
		BandwidthSpread:   c.Bandwidth.Spread,
		HistoryCapacity:   c.History.Capacity,
		SampleMin:         c.History.SampleMin,
		SampleMax:         c.History.SampleMax,
		PacketsBase:       c.Traffic.PacketsBase,
		PacketsJitter:     c.Traffic.PacketsJitter,
		ConnectionsBase:   c.Traffic.ConnectionsBase,
		ConnectionsJitter: c.Traffic.ConnectionsJitter,
	}
}

// Catalog converts the configured catalog; unknown severities are skipped.
func (c Config) Catalog() []eventlog.Template {
	return templates(c.Log.Catalog)
}

// BootEntries converts the configured boot lines.
func (c Config) BootEntries() []eventlog.Template {
	return templates(c.Log.Boot)
}

func templates(lines []LogLine) []eventlog.Template {
	out := make([]eventlog.Template, 0, len(lines))
	for _, l := range lines {
		sev, err := eventlog.ParseSeverity(l.Severity)
		if err != nil {
			continue
		}
		out = append(out, eventlog.Template{Severity: sev, Message: l.Message})
	}
	return out
}

// Panel builds the control panel in configured order; unknown actions are
// skipped.
func (c Config) Panel() *control.Panel {
	ctls := make([]*control.Control, 0, len(c.Controls))
	for _, cc := range c.Controls {
		a, err := control.ParseAction(cc.Action)
		if err != nil {
			continue
		}
		r := control.Rect{X: float64(cc.Region.X), Y: float64(cc.Region.Y), W: float64(cc.Region.W), H: float64(cc.Region.H)}
		ctls = append(ctls, control.New(a, cc.Label, cc.AltLabel, r))
	}
	return control.NewPanel(ctls...)
}
