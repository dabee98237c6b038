package compiler

import (
	"sort"
	"strings"

	"github.com/kai-65537/AOLOT-scoreboard/internal/errors"
	"github.com/kai-65537/AOLOT-scoreboard/internal/schema"
)

var (
	numberActions      = []string{"increase", "decrease", "reset"}
	timerActions       = []string{"start", "stop", "reset", "increase", "decrease"}
	imageToggleActions = []string{"forward", "backward"}
)

// modifierFields maps document modifier names onto chord flags; "win"
// and "super" are the same key.
var modifierFields = []string{"ctrl", "alt", "shift", "win", "super"}

// compileKeybinds decodes the optional keybind table. It returns nil
// when the component has no keybind section.
func compileKeybinds(f fields, allowed []string) (map[string]*schema.KeyChord, error) {
	section, ok, err := f.sub("keybind")
	if err != nil || !ok {
		return nil, err
	}

	names := section.keys()
	sort.Strings(names)

	binds := make(map[string]*schema.KeyChord, len(names))
	for _, action := range names {
		if !contains(allowed, action) {
			return nil, errors.Schemaf(f.subject, section.name(action), "unknown keybind action (expected one of %s)", strings.Join(allowed, ", "))
		}
		chordFields, _, err := section.sub(action)
		if err != nil {
			return nil, err
		}
		chord, err := compileChord(chordFields)
		if err != nil {
			return nil, err
		}
		binds[action] = chord
	}
	return binds, nil
}

func compileChord(f fields) (*schema.KeyChord, error) {
	key, hasKey, err := f.optString("key")
	if err != nil {
		return nil, err
	}
	button, hasButton, err := f.optString("gamepad")
	if err != nil {
		return nil, err
	}
	if hasKey && hasButton {
		return nil, errors.Schemaf(f.subject, strings.TrimSuffix(f.prefix, "."), "set either key or gamepad, not both")
	}

	chord := &schema.KeyChord{}
	for _, mod := range modifierFields {
		on, _, err := f.optBool(mod)
		if err != nil {
			return nil, err
		}
		switch mod {
		case "ctrl":
			chord.Ctrl = on
		case "alt":
			chord.Alt = on
		case "shift":
			chord.Shift = on
		case "win", "super":
			chord.Super = chord.Super || on
		}
	}

	if !hasButton {
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, errors.Schemaf(f.subject, f.name("key"), "cannot be empty")
		}
		if !strings.HasPrefix(key, schema.GamepadPrefix) {
			if key != "+" && strings.Contains(key, "+") {
				return nil, errors.Schemaf(f.subject, f.name("key"), "'%s' must be a single key; use ctrl/alt/shift/win for modifiers", key)
			}
			chord.Key = key
			return chord, nil
		}
		button = strings.TrimPrefix(key, schema.GamepadPrefix)
	}

	button = strings.TrimSpace(button)
	if !schema.IsGamepadButton(button) {
		return nil, errors.Schemaf(f.subject, f.name("gamepad"), "unknown gamepad button '%s'", button)
	}
	if chord.Ctrl || chord.Alt || chord.Shift || chord.Super {
		return nil, errors.Schemaf(f.subject, f.name("gamepad"), "gamepad chords cannot use modifiers")
	}
	chord.Key = button
	chord.Gamepad = true
	return chord, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
