// Package scenario replays scripted input: a YAML list of pointer and
// command events keyed by the frame in which they arrive.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"threatmatrix/internal/control"
	"threatmatrix/internal/input"
)

// Script is a named sequence of timed input steps.
type Script struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step delivers one event during the given frame.
type Step struct {
	Frame  int      `yaml:"frame"`
	Kind   string   `yaml:"event"`
	X      *float64 `yaml:"x,omitempty"`
	Y      *float64 `yaml:"y,omitempty"`
	Action string   `yaml:"action,omitempty"`
}

// Load reads a YAML script from disk.
func Load(path string) (*Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	var s Script
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks event kinds, actions and frame numbers. Missing
// coordinates are allowed; the simulator ignores such events.
func (s *Script) Validate() error {
	var errs []error
	for i, st := range s.Steps {
		if st.Frame < 0 {
			errs = append(errs, fmt.Errorf("step %d: negative frame %d", i, st.Frame))
		}
		if _, err := st.Event(); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Event converts the step into an input event.
func (st Step) Event() (input.Event, error) {
	kind, err := input.ParseKind(st.Kind)
	if err != nil {
		return input.Event{}, err
	}
	ev := input.Event{Kind: kind}
	if st.X != nil && st.Y != nil {
		ev.X, ev.Y, ev.HasPos = *st.X, *st.Y, true
	}
	if kind == input.KindInvoke {
		a, err := control.ParseAction(st.Action)
		if err != nil {
			return input.Event{}, err
		}
		ev.Action = a
	}
	return ev, nil
}

// Player is an input.Source that releases script steps as frames pass.
// The n-th call to Drain returns the steps scheduled for frames up to n.
type Player struct {
	steps []Step
	next  int
	calls int
}

// NewPlayer orders the script's steps by frame, keeping file order within
// a frame.
func NewPlayer(s *Script) *Player {
	var steps []Step
	if s != nil {
		steps = append(steps, s.Steps...)
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Frame < steps[j].Frame })
	return &Player{steps: steps}
}

// Drain implements input.Source. Steps that fail to convert are skipped.
func (p *Player) Drain() []input.Event {
	p.calls++
	var out []input.Event
	for p.next < len(p.steps) && p.steps[p.next].Frame <= p.calls {
		if ev, err := p.steps[p.next].Event(); err == nil {
			out = append(out, ev)
		}
		p.next++
	}
	return out
}

// Done reports whether every step has been delivered.
func (p *Player) Done() bool {
	return p.next >= len(p.steps)
}

// LastFrame returns the highest scheduled frame.
func (s *Script) LastFrame() int {
	last := 0
	for _, st := range s.Steps {
		if st.Frame > last {
			last = st.Frame
		}
	}
	return last
}
