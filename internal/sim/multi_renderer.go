package sim

import "errors"

// MultiRenderer fans snapshots out to several renderers.
type MultiRenderer struct {
	renderers []Renderer
}

// NewMultiRenderer skips nil renderers.
func NewMultiRenderer(rs ...Renderer) *MultiRenderer {
	mr := &MultiRenderer{}
	for _, r := range rs {
		if r != nil {
			mr.renderers = append(mr.renderers, r)
		}
	}
	return mr
}

// Render sends s to every renderer and joins their errors.
func (mr *MultiRenderer) Render(s State) error {
	var errs []error
	for _, r := range mr.renderers {
		if err := r.Render(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of renderers.
func (mr *MultiRenderer) Len() int { return len(mr.renderers) }
