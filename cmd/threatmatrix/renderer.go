package main

import (
	"fmt"
	"io"
	"os"

	"threatmatrix/internal/input"
	"threatmatrix/internal/scenario"
	"threatmatrix/internal/sim"
)

// newRenderers builds one headless renderer per requested format and
// fans out when more than one is asked for.
func newRenderers(formats []string, out io.Writer, every int) (sim.Renderer, error) {
	var rs []sim.Renderer
	for _, f := range formats {
		switch f {
		case "json":
			rs = append(rs, sim.NewJSONRenderer(out, every))
		case "text":
			rs = append(rs, sim.NewTextRenderer(out, every))
		default:
			return nil, fmt.Errorf("unknown format %q (want json or text)", f)
		}
	}
	switch len(rs) {
	case 0:
		return nil, fmt.Errorf("no output format given")
	case 1:
		return rs[0], nil
	}
	return sim.NewMultiRenderer(rs...), nil
}

// loadScript resolves a script file, falling back to a built-in script of
// that name. An empty name yields no script.
func loadScript(name string) (*scenario.Script, error) {
	if name == "" {
		return nil, nil
	}
	if _, err := os.Stat(name); err == nil {
		return scenario.Load(name)
	}
	if s, ok := scenario.Lookup(name); ok {
		return s, nil
	}
	return nil, fmt.Errorf("script %q: no such file or built-in script", name)
}

// scriptSource wraps a script in a player, or returns nil.
func scriptSource(s *scenario.Script) input.Source {
	if s == nil {
		return nil
	}
	return scenario.NewPlayer(s)
}
