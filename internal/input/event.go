// Package input defines the pointer and command events fed to the simulator
// and the sources that buffer them between frames.
package input

import (
	"fmt"
	"math"

	"threatmatrix/internal/control"
)

// Kind identifies an input event.
type Kind uint8

const (
	KindMove Kind = iota + 1
	KindPress
	KindQuit
	KindInvoke
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindPress:
		return "press"
	case KindQuit:
		return "quit"
	case KindInvoke:
		return "invoke"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind converts a name produced by String back into a Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range []Kind{KindMove, KindPress, KindQuit, KindInvoke} {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", name)
}

// Event is one user input. Pointer events carry cell coordinates; invoke
// events carry an action.
type Event struct {
	Kind   Kind
	X, Y   float64
	HasPos bool
	Action control.Action
}

// Move returns a pointer-move event.
func Move(x, y float64) Event { return Event{Kind: KindMove, X: x, Y: y, HasPos: true} }

// Press returns a pointer-down event.
func Press(x, y float64) Event { return Event{Kind: KindPress, X: x, Y: y, HasPos: true} }

// Quit returns a quit request.
func Quit() Event { return Event{Kind: KindQuit} }

// Invoke returns an event firing action directly.
func Invoke(a control.Action) Event { return Event{Kind: KindInvoke, Action: a} }

// Valid reports whether the event can be applied. Pointer events need finite
// coordinates and invoke events a known action.
func (e Event) Valid() bool {
	switch e.Kind {
	case KindMove, KindPress:
		return e.HasPos && finite(e.X) && finite(e.Y)
	case KindQuit:
		return true
	case KindInvoke:
		return e.Action <= control.ActionFullReset
	}
	return false
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
