package schema

import "strings"

// GamepadPrefix marks shortcut strings that belong to the gamepad
// listener rather than the keyboard hotkey registrar.
const GamepadPrefix = "Gamepad:"

// GamepadButtons lists the button names a gamepad chord may use.
var GamepadButtons = []string{
	"A", "B", "X", "Y",
	"LB", "RB", "LT", "RT",
	"BACK", "START", "GUIDE",
	"L3", "R3",
	"DPAD_UP", "DPAD_DOWN", "DPAD_LEFT", "DPAD_RIGHT",
}

// IsGamepadButton reports whether name is a known gamepad button
func IsGamepadButton(name string) bool {
	for _, b := range GamepadButtons {
		if b == name {
			return true
		}
	}
	return false
}

// KeyChord is a base key plus modifiers. Key is never empty in a
// compiled schema. A gamepad chord carries the button name in Key and
// no modifiers.
type KeyChord struct {
	Key     string `json:"key"`
	Ctrl    bool   `json:"ctrl,omitempty"`
	Alt     bool   `json:"alt,omitempty"`
	Shift   bool   `json:"shift,omitempty"`
	Super   bool   `json:"super,omitempty"`
	Gamepad bool   `json:"gamepad,omitempty"`
}

// Shortcut renders the canonical trigger string: modifiers in the fixed
// order Ctrl, Alt, Shift, Super joined by "+" with the trimmed key last,
// or "Gamepad:<button>" for gamepad chords.
func (k KeyChord) Shortcut() string {
	key := strings.TrimSpace(k.Key)
	if k.Gamepad {
		return GamepadPrefix + key
	}

	parts := make([]string, 0, 5)
	if k.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if k.Alt {
		parts = append(parts, "Alt")
	}
	if k.Shift {
		parts = append(parts, "Shift")
	}
	if k.Super {
		parts = append(parts, "Super")
	}
	parts = append(parts, key)
	return strings.Join(parts, "+")
}
