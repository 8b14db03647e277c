package scenario

func at(v float64) *float64 { return &v }

// BuiltIn returns predefined scripts aimed at the default control layout.
func BuiltIn() map[string]Script {
	return map[string]Script{
		"demo": {
			Name:        "Demo",
			Description: "Hover across the control panel, pause and resume monitoring, quarantine threats, reset the system and quit.",
			Steps: []Step{
				{Frame: 10, Kind: "move", X: at(5), Y: at(13)},
				{Frame: 20, Kind: "move", X: at(5), Y: at(16)},
				{Frame: 30, Kind: "press", X: at(5), Y: at(16)},
				{Frame: 90, Kind: "press", X: at(5), Y: at(16)},
				{Frame: 120, Kind: "move", X: at(5), Y: at(19)},
				{Frame: 121, Kind: "press", X: at(5), Y: at(19)},
				{Frame: 180, Kind: "press", X: at(5), Y: at(22)},
				{Frame: 240, Kind: "quit"},
			},
		},
		"drill": {
			Name:        "Quarantine drill",
			Description: "Fire every action through keyboard shortcuts without touching the pointer.",
			Steps: []Step{
				{Frame: 1, Kind: "invoke", Action: "toggle_pause"},
				{Frame: 30, Kind: "invoke", Action: "quarantine"},
				{Frame: 60, Kind: "invoke", Action: "toggle_pause"},
				{Frame: 61, Kind: "invoke", Action: "reset_particles"},
				{Frame: 120, Kind: "invoke", Action: "full_reset"},
				{Frame: 121, Kind: "quit"},
			},
		},
	}
}

// Lookup resolves a built-in script by name.
func Lookup(name string) (*Script, bool) {
	s, ok := BuiltIn()[name]
	if !ok {
		return nil, false
	}
	return &s, true
}
