package sim

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"threatmatrix/internal/config"
	"threatmatrix/internal/input"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// frameMsg carries a simulator snapshot into the TUI.
type frameMsg struct{ State }

// TUIOptions tunes the terminal UI.
type TUIOptions struct {
	// NoColor renders without colors.
	NoColor bool
	// OnExit is called when the user closes the UI, not when Close is
	// called.
	OnExit func()
	// ProgramOptions are appended to the defaults (alt screen and all
	// mouse motion).
	ProgramOptions []tea.ProgramOption
}

// TUIRenderer draws snapshots with a bubbletea program and feeds pointer
// and key input back through an input.Queue.
type TUIRenderer struct {
	program    teaProgram
	done       chan struct{}
	notifyExit atomic.Bool
	errMu      sync.Mutex
	err        error
}

// NewTUIRenderer starts the bubbletea program and returns its renderer.
func NewTUIRenderer(cfg config.Config, queue *input.Queue, opts TUIOptions) *TUIRenderer {
	r := &TUIRenderer{done: make(chan struct{})}
	r.notifyExit.Store(true)
	m := newTUIModel(cfg, queue, opts.NoColor)
	popts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseAllMotion()}, opts.ProgramOptions...)
	p := tea.NewProgram(m, popts...)
	r.program = p
	go func() {
		_, err := p.Run()
		r.errMu.Lock()
		r.err = err
		r.errMu.Unlock()
		close(r.done)
		if r.notifyExit.Load() && opts.OnExit != nil {
			opts.OnExit()
		}
	}()
	return r
}

// Render implements Renderer.
func (r *TUIRenderer) Render(s State) error {
	r.program.Send(frameMsg{s})
	return nil
}

// Done is closed once the program has exited.
func (r *TUIRenderer) Done() <-chan struct{} { return r.done }

// Close shuts down the program, waits for the terminal to be restored and
// returns the program's error.
func (r *TUIRenderer) Close() error {
	r.notifyExit.Store(false)
	if r.program != nil {
		r.program.Send(tea.Quit())
	}
	if r.done != nil {
		<-r.done
	}
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.err
}
