package sim

import (
	"context"
	"time"

	"threatmatrix/internal/logging"
)

// Run paces Step at the configured fps until the context is done, a quit
// event arrives or the frame limit is reached.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "frame_interval", s.interval, "particles", len(s.particles))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !s.Step(ctx) {
				log.Info("stopping simulator", "frame", s.Frame())
				return
			}
		case <-ctx.Done():
			log.Info("stopping simulator", "frame", s.Frame(), "reason", ctx.Err())
			return
		}
	}
}

// RunFrames steps up to n frames back to back and returns how many ran.
// It stops early on quit, frame limit or cancellation.
func (s *Simulator) RunFrames(ctx context.Context, n int) int {
	ran := 0
	for ran < n {
		if ctx.Err() != nil {
			break
		}
		ran++
		if !s.Step(ctx) {
			break
		}
	}
	return ran
}

// Step runs one frame and hands the result to the renderer. It reports
// whether the loop should continue.
func (s *Simulator) Step(ctx context.Context) bool {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	s.applyInput(log)
	s.frame++
	if every(s.frame, s.cfg.Cadence.Metrics) {
		s.metrics.Refresh()
		s.refreshes++
	}
	if every(s.frame, s.cfg.Cadence.Log) {
		s.log.EmitAny()
		s.emissions++
	}
	if !s.paused {
		for i := range s.particles {
			s.particles[i].Advance(s.world)
		}
		s.graph.Compute(s.particles)
		if every(s.frame, s.cfg.Cadence.History) {
			s.metrics.SampleHistory()
		}
	}
	s.metrics.SampleTraffic()
	state := s.snapshot()
	done := s.quit || (s.maxFrames > 0 && s.frame >= s.maxFrames)
	s.mu.Unlock()

	if s.renderer != nil {
		if err := s.renderer.Render(state); err != nil {
			log.Error("render failed", "frame", state.Frame, "err", err)
		}
	}
	return !done
}
