package control

// Panel dispatches pointer events to its controls in a fixed order.
type Panel struct {
	controls []*Control
}

// NewPanel keeps controls in the given order.
func NewPanel(controls ...*Control) *Panel {
	return &Panel{controls: controls}
}

// Move updates hover state on every control.
func (p *Panel) Move(x, y float64) {
	for _, c := range p.controls {
		c.Move(x, y)
	}
}

// Press returns the actions fired by a button-down, in panel order.
func (p *Panel) Press(x, y float64) []Action {
	var fired []Action
	for _, c := range p.controls {
		if c.Press(x, y) {
			fired = append(fired, c.Action)
		}
	}
	return fired
}

// SetToggled updates the label state of every control bound to action.
func (p *Panel) SetToggled(action Action, on bool) {
	for _, c := range p.controls {
		if c.Action == action {
			c.SetToggled(on)
		}
	}
}

// Find returns the first control bound to action.
func (p *Panel) Find(action Action) (*Control, bool) {
	for _, c := range p.controls {
		if c.Action == action {
			return c, true
		}
	}
	return nil, false
}

// Views snapshots every control in order.
func (p *Panel) Views() []View {
	views := make([]View, len(p.controls))
	for i, c := range p.controls {
		views[i] = c.View()
	}
	return views
}
