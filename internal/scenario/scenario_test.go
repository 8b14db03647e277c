package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threatmatrix/internal/control"
	"threatmatrix/internal/input"
)

func TestLoadScript(t *testing.T) {
	sc, err := Load("testdata/simple.yaml")
	require.NoError(t, err)
	assert.Equal(t, "example", sc.Name)
	assert.Equal(t, "basic test script", sc.Description)
	require.Len(t, sc.Steps, 5)
	assert.Equal(t, 8, sc.LastFrame())
}

func TestLoadInvalidScript(t *testing.T) {
	_, err := Load("testdata/invalid.yaml")
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "negative frame")
	assert.Contains(t, msg, `unknown event kind "teleport"`)
	assert.Contains(t, msg, `unknown action "explode"`)
}

func TestLoadMissingScript(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	assert.Error(t, err)
}

func TestPlayerReleasesByFrame(t *testing.T) {
	sc, err := Load("testdata/simple.yaml")
	require.NoError(t, err)
	p := NewPlayer(sc)

	assert.Equal(t, []input.Event{input.Move(5, 16)}, p.Drain())
	assert.Empty(t, p.Drain())
	assert.Equal(t, []input.Event{input.Press(5, 16), input.Invoke(control.ActionQuarantine)}, p.Drain())
	assert.Empty(t, p.Drain())

	got := p.Drain()
	require.Len(t, got, 1)
	assert.False(t, got[0].Valid(), "move without coordinates reaches the simulator as malformed")

	for i := 0; i < 2; i++ {
		assert.Empty(t, p.Drain())
	}
	assert.False(t, p.Done())
	assert.Equal(t, []input.Event{input.Quit()}, p.Drain())
	assert.True(t, p.Done())
}

func TestPlayerNilScript(t *testing.T) {
	p := NewPlayer(nil)
	assert.True(t, p.Done())
	assert.Empty(t, p.Drain())
}

func TestBuiltInScripts(t *testing.T) {
	for name, sc := range BuiltIn() {
		t.Run(name, func(t *testing.T) {
			assert.NotEmpty(t, sc.Description)
			require.NoError(t, sc.Validate())
			last := sc.Steps[len(sc.Steps)-1]
			assert.Equal(t, "quit", last.Kind)
		})
	}
	_, ok := Lookup("demo")
	assert.True(t, ok)
	_, ok = Lookup("missing")
	assert.False(t, ok)
}
