// Package hotkeys turns the engine's keybind projection into lookup tables
// for keyboard and gamepad triggers, and defines the registrars those
// tables are handed to.
package hotkeys

import (
	"sort"
	"strings"

	"github.com/kai-65537/AOLOT-scoreboard/internal/engine"
	"github.com/kai-65537/AOLOT-scoreboard/internal/errors"
	"github.com/kai-65537/AOLOT-scoreboard/internal/schema"
)

// Table is an immutable shortcut → action lookup. Gamepad bindings are
// keyed by button name without the prefix.
type Table struct {
	keyboard map[string]engine.Action
	gamepad  map[string]engine.Action
	bindings []engine.HotkeyBinding
}

// Empty is a table with no bindings
var Empty = &Table{
	keyboard: map[string]engine.Action{},
	gamepad:  map[string]engine.Action{},
}

// Build indexes bindings by normalised shortcut. Two bindings that
// normalise to the same shortcut are a conflict.
func Build(bindings []engine.HotkeyBinding) (*Table, error) {
	t := &Table{
		keyboard: make(map[string]engine.Action, len(bindings)),
		gamepad:  make(map[string]engine.Action),
		bindings: make([]engine.HotkeyBinding, 0, len(bindings)),
	}

	for _, b := range bindings {
		shortcut, err := Normalize(b.Shortcut)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrValidation, "invalid shortcut for "+b.Action.String())
		}

		target := t.keyboard
		key := shortcut
		if button, ok := strings.CutPrefix(shortcut, schema.GamepadPrefix); ok {
			target, key = t.gamepad, button
		}
		if existing, dup := target[key]; dup {
			return nil, errors.Conflictf("shortcut %s is bound to both %s and %s", shortcut, existing, b.Action)
		}
		target[key] = b.Action
		t.bindings = append(t.bindings, engine.HotkeyBinding{Shortcut: shortcut, Action: b.Action})
	}
	return t, nil
}

// Lookup resolves any spelling of a shortcut, keyboard or gamepad
func (t *Table) Lookup(shortcut string) (engine.Action, bool) {
	normalized, err := Normalize(shortcut)
	if err != nil {
		return engine.Action{}, false
	}
	if button, ok := strings.CutPrefix(normalized, schema.GamepadPrefix); ok {
		return t.LookupGamepad(button)
	}
	action, ok := t.keyboard[normalized]
	return action, ok
}

// LookupGamepad resolves a bare gamepad button name
func (t *Table) LookupGamepad(button string) (engine.Action, bool) {
	action, ok := t.gamepad[strings.ToUpper(strings.TrimSpace(button))]
	return action, ok
}

// Keyboard returns the sorted keyboard shortcuts
func (t *Table) Keyboard() []string {
	return sortedKeys(t.keyboard)
}

// Gamepad returns the sorted gamepad shortcuts, prefix included
func (t *Table) Gamepad() []string {
	buttons := sortedKeys(t.gamepad)
	for i, b := range buttons {
		buttons[i] = schema.GamepadPrefix + b
	}
	return buttons
}

// Bindings returns the normalised bindings in build order
func (t *Table) Bindings() []engine.HotkeyBinding {
	return append([]engine.HotkeyBinding(nil), t.bindings...)
}

func (t *Table) Len() int {
	return len(t.keyboard) + len(t.gamepad)
}

func sortedKeys(m map[string]engine.Action) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
