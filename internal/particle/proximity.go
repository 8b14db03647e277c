package particle

import "math"

// Edge links two particles of the same batch closer than the threshold.
// A < B always holds.
type Edge struct {
	A         int     `json:"a"`
	B         int     `json:"b"`
	Distance  float64 `json:"distance"`
	Intensity float64 `json:"intensity"`
}

// Graph recomputes proximity edges for a batch.
//
// Compute checks every pair, so cost grows with n². That is fine for the
// tens of particles the dashboard draws; larger batches would need a
// uniform grid keyed by threshold-sized cells.
type Graph struct {
	Threshold float64
	edges     []Edge
}

// NewGraph returns a graph linking particles closer than threshold.
func NewGraph(threshold float64) *Graph {
	return &Graph{Threshold: threshold}
}

// Compute replaces the edge set for batch and returns it. The returned
// slice is reused by the next call.
func (g *Graph) Compute(batch []Particle) []Edge {
	g.edges = g.edges[:0]
	if g.Threshold <= 0 {
		return g.edges
	}
	for i := 0; i < len(batch); i++ {
		for j := i + 1; j < len(batch); j++ {
			d := math.Hypot(batch[i].X-batch[j].X, batch[i].Y-batch[j].Y)
			if d < g.Threshold {
				g.edges = append(g.edges, Edge{
					A:         i,
					B:         j,
					Distance:  d,
					Intensity: 1 - d/g.Threshold,
				})
			}
		}
	}
	return g.edges
}

// Edges returns the edges from the last Compute.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Alpha scales the intensity onto [0, max], e.g. an 8-bit alpha channel.
func (e Edge) Alpha(max float64) float64 {
	return e.Intensity * max
}
