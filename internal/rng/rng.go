// Package rng defines the randomness source consumed by the simulation.
package rng

import (
	"io"
	"math/rand"
	"time"
)

// Source produces uniform draws. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// New returns a seeded generator. A zero seed picks one from the clock.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Uniform draws from [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Pick returns a uniformly chosen index in [0, n). n must be positive.
func Pick(src Source, n int) int {
	return src.Intn(n)
}

// Reader adapts src to an io.Reader so byte-oriented consumers (uuid) stay
// reproducible under a seeded source.
func Reader(src Source) io.Reader {
	return sourceReader{src: src}
}

type sourceReader struct{ src Source }

func (r sourceReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.src.Intn(256))
	}
	return len(p), nil
}

// Sequence replays a fixed list of floats in [0, 1), cycling when
// exhausted. Intn scales the next float to [0, n).
type Sequence struct {
	Values []float64
	pos    int
}

// NewSequence returns a Sequence over vals.
func NewSequence(vals ...float64) *Sequence {
	return &Sequence{Values: vals}
}

// Float64 returns the next value.
func (s *Sequence) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.pos%len(s.Values)]
	s.pos++
	return v
}

// Intn maps the next value onto [0, n).
func (s *Sequence) Intn(n int) int {
	i := int(s.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
