// Package control implements the clickable buttons of the dashboard's
// left panel: hover tracking on pointer motion and actions fired on press.
package control

import "fmt"

// Action is the state mutation a control triggers.
type Action uint8

const (
	ActionResetParticles Action = iota
	ActionTogglePause
	ActionQuarantine
	ActionFullReset
)

// Actions lists every action in declaration order.
var Actions = []Action{ActionResetParticles, ActionTogglePause, ActionQuarantine, ActionFullReset}

func (a Action) String() string {
	switch a {
	case ActionResetParticles:
		return "reset_particles"
	case ActionTogglePause:
		return "toggle_pause"
	case ActionQuarantine:
		return "quarantine"
	case ActionFullReset:
		return "full_reset"
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ParseAction converts a name produced by String back into an Action.
func ParseAction(name string) (Action, error) {
	for _, a := range Actions {
		if a.String() == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// Rect is a half-open region [X, X+W) × [Y, Y+H).
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Control is one button. It is idle or hovered; a press inside fires its
// action and returns it to idle.
type Control struct {
	Region   Rect
	Label    string
	AltLabel string
	Action   Action
	hovered  bool
	toggled  bool
}

// New returns an idle control.
func New(action Action, label, altLabel string, region Rect) *Control {
	return &Control{Region: region, Label: label, AltLabel: altLabel, Action: action}
}

// Move updates the hover flag from a pointer position.
func (c *Control) Move(x, y float64) {
	c.hovered = c.Region.Contains(x, y)
}

// Press reports whether a button-down at (x, y) fires the action.
func (c *Control) Press(x, y float64) bool {
	if !c.Region.Contains(x, y) {
		return false
	}
	c.hovered = false
	return true
}

// Hovered reports the hover flag.
func (c *Control) Hovered() bool { return c.hovered }

// SetToggled selects the alternate label when on.
func (c *Control) SetToggled(on bool) { c.toggled = on }

// Text returns the label currently shown.
func (c *Control) Text() string {
	if c.toggled && c.AltLabel != "" {
		return c.AltLabel
	}
	return c.Label
}

// View is a render-ready copy of a control.
type View struct {
	Action  Action `json:"action"`
	Text    string `json:"text"`
	Region  Rect   `json:"region"`
	Hovered bool   `json:"hovered"`
}

// View snapshots the control.
func (c *Control) View() View {
	return View{Action: c.Action, Text: c.Text(), Region: c.Region, Hovered: c.hovered}
}
