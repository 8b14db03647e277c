// TextRenderer prints a human-friendly, colorized status line per frame.
package sim

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"

	"threatmatrix/internal/particle"
)

// TextRenderer prints one colorized status line every n-th frame, preceded
// by an overview of the run on the first call.
type TextRenderer struct {
	out   io.Writer
	every uint64
	once  sync.Once
	st    styles
}

// NewTextRenderer writes to os.Stdout when out is nil.
func NewTextRenderer(out io.Writer, every int) *TextRenderer {
	if out == nil {
		out = os.Stdout
	}
	if every < 1 {
		every = 1
	}
	return &TextRenderer{out: out, every: uint64(every), st: newStyles()}
}

func (r *TextRenderer) printOverview(s State) {
	fmt.Fprintln(r.out, r.st.title.Render("THREAT MATRIX"))
	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Viewport:\t%.0fx%.0f\n", s.World.Width, s.World.Height)
	fmt.Fprintf(tw, "Particles:\t%d\n", len(s.Particles))
	fmt.Fprintf(tw, "Active Nodes:\t%d\n", s.Stats.ActiveNodes)
	fmt.Fprintf(tw, "Uptime:\t%.1f%%\n", s.Stats.Uptime)
	tw.Flush()

	if len(s.Controls) > 0 {
		fmt.Fprintln(r.out, "\nControls:")
		tw = tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "Action\tLabel\tRegion\n")
		for _, c := range s.Controls {
			fmt.Fprintf(tw, "%s\t%s\t%.0f,%.0f %.0fx%.0f\n", c.Action, c.Text, c.Region.X, c.Region.Y, c.Region.W, c.Region.H)
		}
		tw.Flush()
	}
	if len(s.Alerts) > 0 {
		fmt.Fprintln(r.out, "\nAlerts:")
		for _, a := range s.Alerts {
			fmt.Fprintf(r.out, "  %s %s (%s)\n", r.st.badge(a.Severity).Render(strings.ToUpper(a.Severity.String())), a.Threat, a.Age)
		}
	}
	fmt.Fprintln(r.out)
}

// Render implements Renderer.
func (r *TextRenderer) Render(s State) error {
	r.once.Do(func() { r.printOverview(s) })
	if s.Frame%r.every != 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", r.st.dim.Render("["+s.Time.Format("15:04:05")+"]"), r.st.value.Render(fmt.Sprintf("frame=%d", s.Frame)))
	if s.Paused {
		b.WriteString(" " + r.st.paused.Render("PAUSED"))
	}
	counts := particle.CountKinds(s.Particles)
	for _, k := range particle.Kinds {
		fmt.Fprintf(&b, " %s", r.st.kind(k).Render(fmt.Sprintf("%s=%d", k, counts[k])))
	}
	fmt.Fprintf(&b, " %s", r.st.label.Render(fmt.Sprintf("links=%d", len(s.Edges))))
	for _, g := range s.Gauges {
		fmt.Fprintf(&b, " %s", r.st.gauge(g.Percent()).Render(fmt.Sprintf("%s=%.1f", g.Name, g.Value)))
	}
	fmt.Fprintf(&b, " %s", r.st.label.Render(fmt.Sprintf("bw=%.1fGB/s pkts=%d conns=%d", s.Stats.Bandwidth, s.Traffic.Packets, s.Traffic.Connections)))
	if n := len(s.Log); n > 0 {
		last := s.Log[n-1]
		fmt.Fprintf(&b, " %s", r.st.severity(last.Severity).Render(last.String()))
	}
	if _, err := fmt.Fprintln(r.out, b.String()); err != nil {
		return fmt.Errorf("write frame %d: %w", s.Frame, err)
	}
	return nil
}
