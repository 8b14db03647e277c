package sim

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"threatmatrix/internal/control"
	"threatmatrix/internal/particle"
)

var gaugeLabels = map[string]string{
	"cpu":          "CPU UTILIZATION",
	"memory":       "MEMORY USAGE",
	"network":      "NETWORK LOAD",
	"threat_level": "THREAT LEVEL",
}

func gaugeLabel(name string) string {
	if l, ok := gaugeLabels[name]; ok {
		return l
	}
	return strings.ToUpper(strings.ReplaceAll(name, "_", " "))
}

func (m tuiModel) View() string {
	if m.help {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderHelp())
	}
	if !m.have {
		return m.st.dim.Render("initializing threat matrix...")
	}
	left := m.renderLeft()
	right := m.renderRight()
	h := lipgloss.Height(left)
	if rh := lipgloss.Height(right); rh > h {
		h = rh
	}
	sep := m.st.link.Render(strings.TrimSuffix(strings.Repeat("│\n", h), "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, sep, right)
}

// renderLeft lays the left column out on absolute rows starting at the
// top-left cell of the screen, so control regions match mouse cells.
func (m tuiModel) renderLeft() string {
	s := m.state
	rows := []string{
		m.st.title.Render("⬡ THREAT MATRIX ⬡"),
		"",
		m.st.section.Render("⚡ SYSTEM RESOURCES"),
	}
	for _, g := range s.Gauges {
		label := fmt.Sprintf("%s: %d%%", gaugeLabel(g.Name), int(g.Value))
		rows = append(rows, " "+m.st.label.Render(label))
		rows = append(rows, " "+m.st.gauge(g.Percent()).Render(m.bar.ViewAs(clamp01(g.Percent()))))
	}

	bottom := len(rows)
	overlay := map[int][]segment{}
	for _, c := range s.Controls {
		block := strings.Split(m.renderButton(c), "\n")
		y := int(c.Region.Y)
		for i, line := range block {
			overlay[y+i] = append(overlay[y+i], segment{x: int(c.Region.X), text: line})
		}
		if b := y + len(block); b > bottom {
			bottom = b
		}
	}

	out := make([]string, 0, bottom+6)
	for r := 0; r < bottom; r++ {
		line := ""
		if r < len(rows) {
			line = rows[r]
		}
		if segs, ok := overlay[r]; ok {
			line = composeSegments(segs)
		}
		out = append(out, m.fit(line))
	}
	out = append(out, "")
	out = append(out, m.renderStats()...)
	return strings.Join(out, "\n")
}

type segment struct {
	x    int
	text string
}

// composeSegments places rendered blocks at their columns, left to right.
func composeSegments(segs []segment) string {
	var b strings.Builder
	col := 0
	for _, sg := range sortSegments(segs) {
		if sg.x > col {
			b.WriteString(strings.Repeat(" ", sg.x-col))
			col = sg.x
		}
		b.WriteString(sg.text)
		col += lipgloss.Width(sg.text)
	}
	return b.String()
}

func sortSegments(segs []segment) []segment {
	out := append([]segment(nil), segs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].x < out[j].x })
	return out
}

func (m tuiModel) fit(line string) string {
	line = truncate.String(line, uint(m.leftWidth))
	if w := lipgloss.Width(line); w < m.leftWidth {
		line += strings.Repeat(" ", m.leftWidth-w)
	}
	return line
}

func (m tuiModel) renderButton(c control.View) string {
	w, h := int(c.Region.W), int(c.Region.H)
	style := m.st.button
	if c.Hovered {
		style = m.st.buttonHover
	}
	if h < 3 || w < 3 {
		style = style.Border(lipgloss.Border{}, false)
		return style.Width(w).Height(h).MaxHeight(h).Align(lipgloss.Center).Render(truncate.String(c.Text, uint(w)))
	}
	return style.Width(w-2).Height(h-2).Align(lipgloss.Center, lipgloss.Center).Render(truncate.String(c.Text, uint(w-2)))
}

func (m tuiModel) renderStats() []string {
	s := m.state.Stats
	cells := []struct {
		value string
		label string
	}{
		{fmt.Sprintf("%d", s.ActiveNodes), "ACTIVE NODES"},
		{fmt.Sprintf("%d", s.Infected), "INFECTED"},
		{fmt.Sprintf("%.1f", s.Bandwidth), "GB/s TRAFFIC"},
		{fmt.Sprintf("%.1f", s.Uptime), "UPTIME %"},
	}
	half := m.leftWidth / 2
	var out []string
	for i := 0; i < len(cells); i += 2 {
		var vals, labels string
		for j := i; j < i+2 && j < len(cells); j++ {
			vals += lipgloss.NewStyle().Width(half).Align(lipgloss.Center).Render(m.st.value.Render(cells[j].value))
			labels += lipgloss.NewStyle().Width(half).Align(lipgloss.Center).Render(m.st.label.Render(cells[j].label))
		}
		out = append(out, vals, labels, "")
	}
	return out
}

func (m tuiModel) renderRight() string {
	w := m.rightWidth()
	parts := []string{m.renderStatus(w)}
	canvas := renderCanvas(m.state, w, m.canvasHeight(), m.st)
	parts = append(parts, strings.Join(canvas, "\n"))
	parts = append(parts, m.renderBottom(w))
	parts = append(parts, m.renderHistory(w))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m tuiModel) renderStatus(w int) string {
	s := m.state
	status := m.st.value.Render("● SYSTEM ACTIVE") + "  " +
		m.st.alertTitle.Render(fmt.Sprintf("● THREATS: %d", s.Hostile())) + "  " +
		m.st.dim.Render(fmt.Sprintf("frame %d  links %d", s.Frame, len(s.Edges)))
	if s.Paused {
		status += "  " + m.st.paused.Render("PAUSED")
	}
	return truncate.String(status, uint(w))
}

func (m tuiModel) renderBottom(w int) string {
	logTitle := m.st.section.Render("▣ TERMINAL")
	if !m.autoscroll {
		logTitle += m.st.dim.Render("  (scroll locked, s to follow)")
	}
	logPanel := m.st.panel.Width(m.vp.Width).Render(logTitle + "\n" + m.vp.View())
	alertPanel := m.st.panel.Render(m.st.alertTitle.Render("⚠ THREAT ALERTS") + "\n" + m.renderAlerts())
	if lipgloss.Width(logPanel)+lipgloss.Width(alertPanel) > w {
		return lipgloss.JoinVertical(lipgloss.Left, logPanel, alertPanel)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, alertPanel)
}

// renderAlerts draws the alert table with each row tinted by severity.
func (m tuiModel) renderAlerts() string {
	lines := strings.Split(m.alerts.View(), "\n")
	for i, a := range m.state.Alerts {
		row := i + 1
		if row >= len(lines) {
			break
		}
		lines[row] = m.st.severity(a.Severity).Render(lines[row])
	}
	return strings.Join(lines, "\n")
}

// Sub-block characters for fractional fill within a cell.
var subBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// renderHistory draws the sample series as a bar graph scaled to 0..100.
func (m tuiModel) renderHistory(w int) string {
	data := m.state.History
	width := w - 2
	if width < 1 {
		width = 1
	}
	var sb strings.Builder
	sb.WriteString(m.st.section.Render("▤ TRAFFIC HISTORY"))
	if n := len(data); n > 0 {
		sb.WriteString(m.st.dim.Render(fmt.Sprintf("  now: %.1f", data[n-1])))
	}
	sb.WriteString("\n")
	if len(data) == 0 {
		return sb.String()
	}
	for row := historyRows - 1; row >= 0; row-- {
		for col := 0; col < width; col++ {
			v := data[col*len(data)/width]
			sb.WriteString(m.st.bar.Render(string(barCell(v, row, historyRows))))
		}
		if row > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// barCell picks the glyph for one cell of a bar of value v (0..100) in a
// graph of the given height.
func barCell(v float64, row, height int) rune {
	normalized := v / 100 * float64(height)
	switch {
	case normalized >= float64(row+1):
		return '█'
	case normalized <= float64(row):
		return ' '
	}
	idx := int((normalized - float64(row)) * 8)
	if idx >= len(subBlocks) {
		idx = len(subBlocks) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return subBlocks[idx]
}

// renderCanvas projects particles and links onto a w×h cell grid.
func renderCanvas(s State, w, h int, st styles) []string {
	if w < 1 || h < 1 {
		return nil
	}
	grid := make([][]string, h)
	for i := range grid {
		grid[i] = make([]string, w)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}
	cell := func(x, y float64) (int, int) {
		cx, cy := 0, 0
		if s.World.Width > 0 {
			cx = int(math.Round(x / s.World.Width * float64(w-1)))
		}
		if s.World.Height > 0 {
			cy = int(math.Round(y / s.World.Height * float64(h-1)))
		}
		return clampInt(cx, 0, w-1), clampInt(cy, 0, h-1)
	}

	for _, e := range s.Edges {
		if e.A >= len(s.Particles) || e.B >= len(s.Particles) {
			continue
		}
		a, b := s.Particles[e.A], s.Particles[e.B]
		x0, y0 := cell(a.X, a.Y)
		x1, y1 := cell(b.X, b.Y)
		style := st.link
		if e.Intensity >= 0.5 {
			style = st.linkStrong
		}
		steps := max(absInt(x1-x0), absInt(y1-y0))
		for i := 1; i < steps; i++ {
			t := float64(i) / float64(steps)
			cx := x0 + int(math.Round(t*float64(x1-x0)))
			cy := y0 + int(math.Round(t*float64(y1-y0)))
			grid[cy][cx] = style.Render("·")
		}
	}
	for _, p := range s.Particles {
		cx, cy := cell(p.X, p.Y)
		grid[cy][cx] = st.kind(p.Kind).Render(particleGlyph(p))
	}

	overlay := []string{
		"⬢ REAL-TIME ANALYSIS",
		fmt.Sprintf("◈ PACKETS: %d/s", s.Traffic.Packets),
		fmt.Sprintf("◈ CONNECTIONS: %d", s.Traffic.Connections),
	}
	for i, text := range overlay {
		if i+1 >= h {
			break
		}
		for j, r := range []rune(text) {
			if j+1 >= w {
				break
			}
			grid[i+1][j+1] = st.value.Render(string(r))
		}
	}

	out := make([]string, h)
	for i, row := range grid {
		out[i] = strings.Join(row, "")
	}
	return out
}

// particleGlyph grows with the pulsing radius.
func particleGlyph(p particle.Particle) string {
	r := p.Size + p.Pulse()*2
	switch {
	case r < 4:
		return "•"
	case r < 6:
		return "●"
	default:
		return "◉"
	}
}

const helpText = "Mouse: hover and click the control buttons. " +
	"Keys: i initialize scan, space or p pause and resume, x quarantine threats, r system reset, " +
	"s toggle log autoscroll, up/down or the mouse wheel scroll the log, ? close this help, q quit."

func (m tuiModel) renderHelp() string {
	return m.st.help.Render(m.st.section.Render("HELP") + "\n" + wordwrap.String(helpText, 50))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
