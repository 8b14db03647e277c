// Simulator owning the dashboard state and advancing it frame by frame
package sim

import (
	"log/slog"
	"sync"
	"time"

	"threatmatrix/internal/config"
	"threatmatrix/internal/control"
	"threatmatrix/internal/eventlog"
	"threatmatrix/internal/input"
	"threatmatrix/internal/metrics"
	"threatmatrix/internal/particle"
	"threatmatrix/internal/rng"
)

// Renderer receives a snapshot after every frame.
type Renderer interface {
	Render(State) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(State) error

// Render calls f.
func (f RendererFunc) Render(s State) error { return f(s) }

// Alert is one row of the threat feed.
type Alert struct {
	Severity eventlog.Severity `json:"severity"`
	Threat   string            `json:"threat"`
	Age      string            `json:"age"`
}

// Stats backs the stats grid.
type Stats struct {
	ActiveNodes int     `json:"active_nodes"`
	Infected    int     `json:"infected"`
	Bandwidth   float64 `json:"bandwidth"`
	Uptime      float64 `json:"uptime"`
}

// State is an immutable copy of the dashboard handed to renderers.
type State struct {
	Frame     uint64              `json:"frame"`
	Paused    bool                `json:"paused"`
	Time      time.Time           `json:"time"`
	World     particle.World      `json:"world"`
	Particles []particle.Particle `json:"particles"`
	Edges     []particle.Edge     `json:"edges"`
	Gauges    []metrics.Gauge     `json:"gauges"`
	Traffic   metrics.Traffic     `json:"traffic"`
	History   []float64           `json:"history"`
	Log       []eventlog.Entry    `json:"log"`
	Controls  []control.View      `json:"controls"`
	Alerts    []Alert             `json:"alerts"`
	Stats     Stats               `json:"stats"`
	// Refreshes and Emissions count cadence-driven metric refreshes and
	// log emissions since start.
	Refreshes int `json:"refreshes"`
	Emissions int `json:"emissions"`
}

// Hostile returns the number of infected or critical particles.
func (s State) Hostile() int {
	return particle.CountHostile(s.Particles)
}

// Simulator owns the dashboard state. Only the goroutine calling Step or
// Run mutates it; renderers get copies.
type Simulator struct {
	cfg       config.Config
	world     particle.World
	spec      particle.Spec
	particles []particle.Particle
	graph     *particle.Graph
	metrics   *metrics.Model
	log       *eventlog.Log
	panel     *control.Panel
	alerts    []Alert
	events    input.Source
	renderer  Renderer
	rand      rng.Source
	now       func() time.Time
	interval  time.Duration

	frame     uint64
	maxFrames uint64
	paused    bool
	quit      bool
	refreshes int
	emissions int
	mu        sync.Mutex
}

// NewSimulator builds the initial dashboard from cfg. A nil events source
// yields no input, a nil renderer drops frames, a nil src seeds from the
// clock and a nil now uses time.Now.
func NewSimulator(cfg config.Config, events input.Source, renderer Renderer, src rng.Source, now func() time.Time) *Simulator {
	if events == nil {
		events = input.Sources{}
	}
	if src == nil {
		src = rng.New(0)
	}
	if now == nil {
		now = time.Now
	}
	fps := cfg.FPS
	if fps <= 0 {
		fps = config.Default().FPS
	}
	s := &Simulator{
		cfg:      cfg,
		world:    cfg.World(),
		spec:     cfg.ParticleSpec(),
		graph:    particle.NewGraph(cfg.Particles.LinkThreshold),
		events:   events,
		renderer: renderer,
		rand:     src,
		now:      now,
		interval: time.Second / time.Duration(fps),
		panel:    cfg.Panel(),
	}
	s.metrics = metrics.NewModel(cfg.MetricsSpec(), src)
	s.log = eventlog.New(cfg.Log.Capacity, cfg.Catalog(), src, now)
	for _, t := range cfg.BootEntries() {
		s.log.Add(t.Severity, t.Message)
	}
	for _, a := range cfg.Alerts {
		sev, err := eventlog.ParseSeverity(a.Severity)
		if err != nil {
			continue
		}
		s.alerts = append(s.alerts, Alert{Severity: sev, Threat: a.Threat, Age: a.Age})
	}
	s.resetParticles()
	return s
}

// StopAfter ends Run once n frames have been stepped. Zero means no limit.
func (s *Simulator) StopAfter(n uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxFrames = n
}

// Interval returns the frame period derived from fps.
func (s *Simulator) Interval() time.Duration { return s.interval }

// Frame returns the number of completed frames.
func (s *Simulator) Frame() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Paused reports the pause flag.
func (s *Simulator) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Snapshot returns a copy of the current state.
func (s *Simulator) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Simulator) snapshot() State {
	return State{
		Frame:     s.frame,
		Paused:    s.paused,
		Time:      s.now(),
		World:     s.world,
		Particles: append([]particle.Particle(nil), s.particles...),
		Edges:     append([]particle.Edge(nil), s.graph.Edges()...),
		Gauges:    s.metrics.Gauges(),
		Traffic:   s.metrics.Traffic(),
		History:   s.metrics.History().Values(),
		Log:       s.log.Entries(),
		Controls:  s.panel.Views(),
		Alerts:    append([]Alert(nil), s.alerts...),
		Stats: Stats{
			ActiveNodes: s.cfg.Stats.ActiveNodes,
			Infected:    particle.CountHostile(s.particles),
			Bandwidth:   s.metrics.Bandwidth(),
			Uptime:      s.cfg.Stats.Uptime,
		},
		Refreshes: s.refreshes,
		Emissions: s.emissions,
	}
}

// applyInput drains the event source. Moves are applied before presses and
// invokes so hover state is current when a press lands in the same frame.
func (s *Simulator) applyInput(log *slog.Logger) {
	events := s.events.Drain()
	if len(events) == 0 {
		return
	}
	valid := make([]input.Event, 0, len(events))
	for _, ev := range events {
		if !ev.Valid() {
			log.Debug("ignoring malformed input event", "kind", ev.Kind.String(), "frame", s.frame)
			continue
		}
		valid = append(valid, ev)
	}
	for _, ev := range valid {
		if ev.Kind == input.KindMove {
			s.panel.Move(ev.X, ev.Y)
		}
	}
	for _, ev := range valid {
		switch ev.Kind {
		case input.KindPress:
			for _, a := range s.panel.Press(ev.X, ev.Y) {
				s.apply(log, a)
			}
		case input.KindInvoke:
			s.apply(log, ev.Action)
		case input.KindQuit:
			s.quit = true
		}
	}
}

func (s *Simulator) apply(log *slog.Logger, a control.Action) {
	switch a {
	case control.ActionResetParticles:
		s.resetParticles()
	case control.ActionTogglePause:
		s.paused = !s.paused
		s.panel.SetToggled(control.ActionTogglePause, s.paused)
	case control.ActionQuarantine:
		n := particle.Quarantine(s.particles)
		s.log.EmitAny()
		log.Debug("quarantined particles", "count", n)
	case control.ActionFullReset:
		s.resetParticles()
		s.metrics.ResetHistory()
	}
	log.Debug("action fired", "action", a.String(), "frame", s.frame, "paused", s.paused)
}

func (s *Simulator) resetParticles() {
	s.particles = particle.NewBatch(s.spec, s.world, s.rand)
	s.graph.Compute(s.particles)
}

func every(frame uint64, cadence int) bool {
	return cadence > 0 && frame%uint64(cadence) == 0
}
