// Package particle holds the animated node entities of the network field
// and the proximity links drawn between them.
package particle

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"threatmatrix/internal/rng"
)

// Kind classifies a particle for rendering and quarantine.
type Kind uint8

const (
	KindNormal Kind = iota
	KindInfected
	KindWarning
	KindCritical
)

// Kinds lists every classification in declaration order.
var Kinds = []Kind{KindNormal, KindInfected, KindWarning, KindCritical}

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindInfected:
		return "infected"
	case KindWarning:
		return "warning"
	case KindCritical:
		return "critical"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Hostile reports whether quarantine applies to the kind.
func (k Kind) Hostile() bool {
	switch k {
	case KindInfected, KindCritical:
		return true
	case KindNormal, KindWarning:
		return false
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind converts a name produced by String back into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return KindNormal, fmt.Errorf("unknown particle kind %q", s)
}

// World is the rectangle particles live in plus the per-tick phase step.
type World struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	PhaseStep float64 `json:"phase_step"`
}

// Particle is one simulated network node.
type Particle struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Size  float64 `json:"size"`
	Phase float64 `json:"phase"`
	Kind  Kind    `json:"kind"`
}

// Advance moves the particle one tick and reflects it off the walls.
func (p *Particle) Advance(w World) {
	p.X, p.VX = reflect(p.X+p.VX, p.VX, w.Width)
	p.Y, p.VY = reflect(p.Y+p.VY, p.VY, w.Height)
	p.Phase += w.PhaseStep
}

// Pulse maps the phase onto [0, 1] for size modulation.
func (p Particle) Pulse() float64 {
	return math.Sin(p.Phase)*0.5 + 0.5
}

// reflect mirrors pos back into [0, limit]. The velocity is negated only
// while it still points out of the wall, so one crossing flips it once.
func reflect(pos, vel, limit float64) (float64, float64) {
	switch {
	case pos < 0:
		pos = -pos
		if vel < 0 {
			vel = -vel
		}
	case pos > limit:
		pos = 2*limit - pos
		if vel > 0 {
			vel = -vel
		}
	}
	if pos < 0 {
		pos = 0
	} else if pos > limit {
		pos = limit
	}
	return pos, vel
}

// Spec describes how a batch is randomised.
type Spec struct {
	Count   int
	Speed   float64
	SizeMin float64
	SizeMax float64
}

// NewBatch creates count particles spread uniformly over the world.
func NewBatch(spec Spec, w World, src rng.Source) []Particle {
	batch := make([]Particle, spec.Count)
	for i := range batch {
		batch[i] = Particle{
			ID:    newID(i, src),
			X:     rng.Uniform(src, 0, w.Width),
			Y:     rng.Uniform(src, 0, w.Height),
			VX:    rng.Uniform(src, -spec.Speed, spec.Speed),
			VY:    rng.Uniform(src, -spec.Speed, spec.Speed),
			Size:  rng.Uniform(src, spec.SizeMin, spec.SizeMax),
			Kind:  Kinds[rng.Pick(src, len(Kinds))],
			Phase: rng.Uniform(src, 0, 2*math.Pi),
		}
	}
	return batch
}

func newID(index int, src rng.Source) string {
	id, err := uuid.NewRandomFromReader(rng.Reader(src))
	if err != nil {
		id = uuid.New()
	}
	return fmt.Sprintf("node-%02d-%s", index, id.String()[:8])
}

// Quarantine downgrades every hostile particle to a warning and returns
// how many were changed.
func Quarantine(batch []Particle) int {
	n := 0
	for i := range batch {
		if batch[i].Kind.Hostile() {
			batch[i].Kind = KindWarning
			n++
		}
	}
	return n
}

// CountKinds tallies particles per kind.
func CountKinds(batch []Particle) map[Kind]int {
	counts := make(map[Kind]int, len(Kinds))
	for _, p := range batch {
		counts[p.Kind]++
	}
	return counts
}

// CountHostile returns the number of infected or critical particles.
func CountHostile(batch []Particle) int {
	n := 0
	for _, p := range batch {
		if p.Kind.Hostile() {
			n++
		}
	}
	return n
}
