package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSONRenderer prints one JSON document per snapshot, every n-th frame.
type JSONRenderer struct {
	out   io.Writer
	every uint64
}

// NewJSONRenderer writes to os.Stdout when out is nil. every below one
// prints every frame.
func NewJSONRenderer(out io.Writer, every int) *JSONRenderer {
	if out == nil {
		out = os.Stdout
	}
	if every < 1 {
		every = 1
	}
	return &JSONRenderer{out: out, every: uint64(every)}
}

// Render implements Renderer.
func (r *JSONRenderer) Render(s State) error {
	if s.Frame%r.every != 0 {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", s.Frame, err)
	}
	if _, err := fmt.Fprintln(r.out, string(data)); err != nil {
		return fmt.Errorf("write frame %d: %w", s.Frame, err)
	}
	return nil
}
