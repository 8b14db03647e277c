package sim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threatmatrix/internal/config"
	"threatmatrix/internal/control"
	"threatmatrix/internal/input"
	"threatmatrix/internal/particle"
	"threatmatrix/internal/rng"
)

var fixedNow = func() time.Time { return time.Date(2024, 5, 1, 10, 34, 12, 0, time.UTC) }

func newTestSim(t *testing.T, cfg config.Config) (*Simulator, *input.Queue) {
	t.Helper()
	q := input.NewQueue(0)
	return NewSimulator(cfg, q, nil, rng.New(7), fixedNow), q
}

func TestNewSimulatorInitialState(t *testing.T) {
	s, _ := newTestSim(t, config.Default())
	st := s.Snapshot()
	assert.Zero(t, st.Frame)
	assert.False(t, st.Paused)
	assert.Len(t, st.Particles, 60)
	assert.Len(t, st.History, 50)
	assert.Len(t, st.Log, 5, "boot entries")
	assert.Len(t, st.Controls, 4)
	assert.Len(t, st.Alerts, 4)
	assert.Equal(t, 152, st.Stats.ActiveNodes)
	assert.Equal(t, st.Hostile(), st.Stats.Infected)
	assert.Equal(t, 8.7, st.Stats.Bandwidth)
	assert.Equal(t, "[10:34:12] ▲ CRITICAL: Malware signature detected on Node 47", st.Log[0].String())
}

func TestRefreshCadence(t *testing.T) {
	s, _ := newTestSim(t, config.Default())
	ctx := context.Background()

	require.Equal(t, 10, s.RunFrames(ctx, 10))
	assert.Zero(t, s.Snapshot().Refreshes)

	s.RunFrames(ctx, 50)
	st := s.Snapshot()
	assert.EqualValues(t, 60, st.Frame)
	assert.Equal(t, 1, st.Refreshes)
	assert.Zero(t, st.Emissions)
}

func TestLogCadence(t *testing.T) {
	s, _ := newTestSim(t, config.Default())
	s.RunFrames(context.Background(), 180)
	st := s.Snapshot()
	assert.Equal(t, 1, st.Emissions)
	assert.Equal(t, 3, st.Refreshes)
	assert.Len(t, st.Log, 6)

	s.RunFrames(context.Background(), 180*4)
	assert.Len(t, s.Snapshot().Log, 8, "log stays at capacity")
}

func TestGaugesStayInBounds(t *testing.T) {
	cfg := config.Default()
	cfg.Cadence.Metrics = 1
	s, _ := newTestSim(t, cfg)
	for i := 0; i < 500; i++ {
		s.Step(context.Background())
		for _, g := range s.Snapshot().Gauges {
			require.GreaterOrEqual(t, g.Value, g.Min, g.Name)
			require.LessOrEqual(t, g.Value, g.Max, g.Name)
		}
	}
}

func TestParticlesStayInBounds(t *testing.T) {
	s, _ := newTestSim(t, config.Default())
	s.RunFrames(context.Background(), 1000)
	for _, p := range s.Snapshot().Particles {
		require.True(t, p.X >= 0 && p.X <= 700, "x=%v", p.X)
		require.True(t, p.Y >= 0 && p.Y <= 540, "y=%v", p.Y)
	}
}

func TestPauseFreezesParticlesEdgesAndHistory(t *testing.T) {
	s, q := newTestSim(t, config.Default())
	ctx := context.Background()
	s.RunFrames(ctx, 5)

	q.Push(input.Invoke(control.ActionTogglePause))
	s.Step(ctx)
	frozen := s.Snapshot()
	require.True(t, frozen.Paused)

	s.RunFrames(ctx, 200)
	st := s.Snapshot()
	assert.Equal(t, frozen.Particles, st.Particles)
	assert.Equal(t, frozen.Edges, st.Edges)
	assert.Equal(t, frozen.History, st.History)
	assert.EqualValues(t, 206, st.Frame)
	assert.Equal(t, 3, st.Refreshes, "metrics keep refreshing while paused")
	assert.Equal(t, 1, st.Emissions, "log keeps emitting while paused")

	q.Push(input.Invoke(control.ActionTogglePause))
	s.Step(ctx)
	assert.NotEqual(t, frozen.Particles, s.Snapshot().Particles)
}

func TestPressInsidePauseControl(t *testing.T) {
	s, q := newTestSim(t, config.Default())
	q.Push(input.Move(5, 16))
	q.Push(input.Press(5, 16))
	s.Step(context.Background())

	st := s.Snapshot()
	assert.True(t, st.Paused)
	pause := st.Controls[1]
	require.Equal(t, control.ActionTogglePause, pause.Action)
	assert.Equal(t, "▶ RESUME MONITORING", pause.Text)
	assert.False(t, pause.Hovered)

	q.Push(input.Press(5, 16))
	s.Step(context.Background())
	st = s.Snapshot()
	assert.False(t, st.Paused)
	assert.Equal(t, "⏸ PAUSE MONITORING", st.Controls[1].Text)
}

func TestMovesAppliedBeforePresses(t *testing.T) {
	s, q := newTestSim(t, config.Default())
	q.Push(input.Press(5, 16))
	q.Push(input.Move(5, 13))
	s.Step(context.Background())

	st := s.Snapshot()
	assert.True(t, st.Paused)
	assert.True(t, st.Controls[0].Hovered)
	assert.False(t, st.Controls[1].Hovered)
}

func TestPressOutsideControlsDoesNothing(t *testing.T) {
	s, q := newTestSim(t, config.Default())
	before := s.Snapshot().Particles
	q.Push(input.Press(60, 5))
	s.Step(context.Background())
	st := s.Snapshot()
	assert.False(t, st.Paused)
	assert.Equal(t, before[0].ID, st.Particles[0].ID)
}

func TestMalformedEventsIgnored(t *testing.T) {
	s, q := newTestSim(t, config.Default())
	q.Push(input.Event{Kind: input.KindPress})
	q.Push(input.Press(math.NaN(), 16))
	q.Push(input.Event{Kind: 99, X: 5, Y: 16, HasPos: true})
	assert.True(t, s.Step(context.Background()))
	assert.False(t, s.Paused())
}

func TestQuarantine(t *testing.T) {
	s, q := newTestSim(t, config.Default())
	before := s.Snapshot()
	require.Positive(t, before.Hostile())
	wantWarning := particle.CountKinds(before.Particles)[particle.KindWarning] + before.Hostile()

	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
	q.Push(input.Invoke(control.ActionQuarantine))
	s.Step(context.Background())

	st := s.Snapshot()
	assert.Zero(t, st.Hostile())
	assert.Zero(t, st.Stats.Infected)
	assert.Equal(t, wantWarning, particle.CountKinds(st.Particles)[particle.KindWarning])
	assert.Len(t, st.Log, len(before.Log)+1)
}

func TestResetParticlesWhilePausedRecomputesEdges(t *testing.T) {
	s, q := newTestSim(t, config.Default())
	ctx := context.Background()
	q.Push(input.Invoke(control.ActionTogglePause))
	s.Step(ctx)
	old := s.Snapshot()

	q.Push(input.Invoke(control.ActionResetParticles))
	s.Step(ctx)
	st := s.Snapshot()

	require.Len(t, st.Particles, 60)
	assert.NotEqual(t, old.Particles[0].ID, st.Particles[0].ID)
	want := particle.NewGraph(150).Compute(st.Particles)
	assert.Equal(t, append([]particle.Edge(nil), want...), st.Edges)
	assert.Equal(t, old.History, st.History, "reset_particles keeps history")
}

func TestFullResetRefillsHistory(t *testing.T) {
	s, q := newTestSim(t, config.Default())
	old := s.Snapshot()
	q.Push(input.Invoke(control.ActionFullReset))
	s.Step(context.Background())
	st := s.Snapshot()
	assert.Len(t, st.History, 50)
	assert.NotEqual(t, old.History, st.History)
	assert.NotEqual(t, old.Particles[0].ID, st.Particles[0].ID)
}

func TestQuitEndsAfterCurrentFrame(t *testing.T) {
	var rendered []uint64
	q := input.NewQueue(0)
	s := NewSimulator(config.Default(), q, RendererFunc(func(st State) error {
		rendered = append(rendered, st.Frame)
		return nil
	}), rng.New(1), fixedNow)

	s.RunFrames(context.Background(), 3)
	q.Push(input.Quit())
	assert.Equal(t, 1, s.RunFrames(context.Background(), 10))
	assert.Equal(t, []uint64{1, 2, 3, 4}, rendered)
}

func TestStopAfter(t *testing.T) {
	s, _ := newTestSim(t, config.Default())
	s.StopAfter(5)
	assert.Equal(t, 5, s.RunFrames(context.Background(), 100))
	assert.EqualValues(t, 5, s.Frame())
}

func TestRunFramesHonoursCancellation(t *testing.T) {
	s, _ := newTestSim(t, config.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Zero(t, s.RunFrames(ctx, 10))
}

func TestRunPacesUntilLimit(t *testing.T) {
	cfg := config.Default()
	cfg.FPS = 200
	s, _ := newTestSim(t, cfg)
	assert.Equal(t, 5*time.Millisecond, s.Interval())
	s.StopAfter(3)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Run(ctx)
	assert.EqualValues(t, 3, s.Frame())
	assert.NoError(t, ctx.Err())
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _ := newTestSim(t, config.Default())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRenderErrorsDoNotStopTheLoop(t *testing.T) {
	calls := 0
	s := NewSimulator(config.Default(), nil, RendererFunc(func(State) error {
		calls++
		return errors.New("boom")
	}), rng.New(1), fixedNow)
	assert.Equal(t, 3, s.RunFrames(context.Background(), 3))
	assert.Equal(t, 3, calls)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s, _ := newTestSim(t, config.Default())
	s.Step(context.Background())
	st := s.Snapshot()
	st.Particles[0].X = -100
	st.History[0] = -1
	st.Controls[0].Text = "changed"
	if len(st.Edges) > 0 {
		st.Edges[0].A = 999
	}

	again := s.Snapshot()
	assert.NotEqual(t, -100.0, again.Particles[0].X)
	assert.NotEqual(t, -1.0, again.History[0])
	assert.NotEqual(t, "changed", again.Controls[0].Text)
	if len(again.Edges) > 0 {
		assert.NotEqual(t, 999, again.Edges[0].A)
	}
}

func TestSeededRunsAreReproducible(t *testing.T) {
	a := NewSimulator(config.Default(), nil, nil, rng.New(42), fixedNow)
	b := NewSimulator(config.Default(), nil, nil, rng.New(42), fixedNow)
	a.RunFrames(context.Background(), 240)
	b.RunFrames(context.Background(), 240)
	assert.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestTrafficResampledEveryFrameEvenWhenPaused(t *testing.T) {
	cfg := config.Default()
	src := rng.NewSequence(0.5)
	s := NewSimulator(cfg, nil, nil, src, fixedNow)
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
	s.Step(context.Background())
	tr := s.Snapshot().Traffic
	assert.GreaterOrEqual(t, tr.Packets, 142000)
	assert.LessOrEqual(t, tr.Packets, 152000)
	assert.GreaterOrEqual(t, tr.Connections, 1200)
	assert.LessOrEqual(t, tr.Connections, 1400)
}
