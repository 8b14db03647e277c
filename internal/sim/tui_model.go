package sim

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"

	"threatmatrix/internal/config"
	"threatmatrix/internal/control"
	"threatmatrix/internal/input"
)

const (
	defaultWidth  = 120
	defaultHeight = 40
	minLeftWidth  = 32
	logTitleRows  = 1
	historyRows   = 4
)

type tuiModel struct {
	queue      *input.Queue
	st         styles
	state      State
	have       bool
	width      int
	height     int
	leftWidth  int
	logLines   int
	vp         viewport.Model
	alerts     table.Model
	bar        progress.Model
	autoscroll bool
	help       bool
}

func newTUIModel(cfg config.Config, queue *input.Queue, noColor bool) tuiModel {
	left := minLeftWidth
	for _, c := range cfg.Controls {
		if r := c.Region.X + c.Region.W + 1; r > left {
			left = r
		}
	}
	barOpts := []progress.Option{progress.WithSolidFill(string(colorCyan)), progress.WithoutPercentage(), progress.WithWidth(left - 4)}
	if noColor {
		barOpts = append(barOpts, progress.WithColorProfile(termenv.Ascii))
	}
	m := tuiModel{
		queue:      queue,
		st:         newStyles(),
		width:      defaultWidth,
		height:     defaultHeight,
		leftWidth:  left,
		logLines:   cfg.Log.Capacity,
		vp:         viewport.New(0, cfg.Log.Capacity),
		alerts:     newAlertTable(cfg),
		bar:        progress.New(barOpts...),
		autoscroll: true,
	}
	m.layout()
	return m
}

func newAlertTable(cfg config.Config) table.Model {
	cols := []table.Column{
		{Title: "Severity", Width: 9},
		{Title: "Threat", Width: 22},
		{Title: "Detected", Width: 9},
	}
	rows := make([]table.Row, 0, len(cfg.Alerts))
	for _, a := range cfg.Alerts {
		rows = append(rows, table.Row{strings.ToUpper(a.Severity), a.Threat, a.Age})
	}
	st := table.DefaultStyles()
	st.Header = st.Header.Foreground(colorCyan).Bold(true)
	st.Selected = st.Cell
	return table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1), table.WithStyles(st))
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) push(ev input.Event) {
	if m.queue != nil {
		m.queue.Push(ev)
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshLog()
	case frameMsg:
		m.state = msg.State
		m.have = true
		m.refreshLog()
	case tea.MouseMsg:
		switch msg.Action {
		case tea.MouseActionMotion:
			m.push(input.Move(float64(msg.X), float64(msg.Y)))
		case tea.MouseActionPress:
			switch msg.Button {
			case tea.MouseButtonLeft:
				m.push(input.Press(float64(msg.X), float64(msg.Y)))
			case tea.MouseButtonWheelUp:
				m.autoscroll = false
				m.vp.LineUp(1)
			case tea.MouseButtonWheelDown:
				m.vp.LineDown(1)
			}
		}
	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
			case "q", "ctrl+c":
				m.push(input.Quit())
				return m, tea.Quit
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.push(input.Quit())
			return m, tea.Quit
		case "i":
			m.push(input.Invoke(control.ActionResetParticles))
		case " ", "p":
			m.push(input.Invoke(control.ActionTogglePause))
		case "x":
			m.push(input.Invoke(control.ActionQuarantine))
		case "r":
			m.push(input.Invoke(control.ActionFullReset))
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
		case "h", "?":
			m.help = true
		case "k", "up":
			m.autoscroll = false
			m.vp.LineUp(1)
		case "j", "down":
			m.vp.LineDown(1)
		case "pgup":
			m.autoscroll = false
			m.vp.ViewUp()
		case "pgdown":
			m.vp.ViewDown()
		}
	}
	return m, nil
}

// layout sizes the panels of the right-hand area.
func (m *tuiModel) layout() {
	right := m.rightWidth()
	alertsW := lipgloss.Width(m.alerts.View()) + 2
	logW := right - alertsW - 2
	if logW < 20 {
		logW = right - 2
	}
	m.vp.Width = logW
	m.vp.Height = m.logLines
}

func (m tuiModel) rightWidth() int {
	w := m.width - m.leftWidth - 1
	if w < 20 {
		w = 20
	}
	return w
}

// canvasHeight is what remains of the right column after the status line,
// the log/alert row and the history graph.
func (m tuiModel) canvasHeight() int {
	bottom := m.logLines + logTitleRows + 2
	if a := m.alerts.Height() + logTitleRows + 2; a > bottom {
		bottom = a
	}
	h := m.height - 1 - bottom - (historyRows + 2)
	if h < 5 {
		h = 5
	}
	return h
}

func (m *tuiModel) refreshLog() {
	lines := make([]string, 0, len(m.state.Log))
	for _, e := range m.state.Log {
		line := truncate.StringWithTail(e.String(), uint(m.vp.Width), "…")
		lines = append(lines, m.st.severity(e.Severity).Render(line))
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}
