package hotkeys

import (
	"fmt"
	"strings"

	"github.com/kai-65537/AOLOT-scoreboard/internal/schema"
)

const (
	modCtrl = 1 << iota
	modAlt
	modShift
	modSuper
)

var modifierNames = map[string]int{
	"ctrl":    modCtrl,
	"control": modCtrl,
	"alt":     modAlt,
	"option":  modAlt,
	"shift":   modShift,
	"super":   modSuper,
	"win":     modSuper,
	"meta":    modSuper,
	"cmd":     modSuper,
}

// namedKeys maps lower-case spellings onto the canonical key token
var namedKeys = map[string]string{
	"up": "Up", "down": "Down", "left": "Left", "right": "Right",
	"space": "Space", "enter": "Enter", "return": "Enter", "cr": "Enter",
	"esc": "Escape", "escape": "Escape", "tab": "Tab",
	"backspace": "Backspace", "bs": "Backspace",
	"delete": "Delete", "del": "Delete", "insert": "Insert", "ins": "Insert",
	"home": "Home", "end": "End",
	"pageup": "PageUp", "pgup": "PageUp", "pagedown": "PageDown", "pgdn": "PageDown",
}

func init() {
	for i := 1; i <= 24; i++ {
		namedKeys[fmt.Sprintf("f%d", i)] = fmt.Sprintf("F%d", i)
	}
}

// Normalize rewrites a shortcut into canonical form: modifiers in
// Ctrl, Alt, Shift, Super order, single letters upper-cased and named keys
// in their canonical spelling. Gamepad shortcuts keep their prefix with
// the button upper-cased.
func Normalize(shortcut string) (string, error) {
	s := strings.TrimSpace(shortcut)
	if s == "" {
		return "", fmt.Errorf("empty shortcut")
	}

	if len(s) >= len(schema.GamepadPrefix) && strings.EqualFold(s[:len(schema.GamepadPrefix)], schema.GamepadPrefix) {
		button := strings.ToUpper(strings.TrimSpace(s[len(schema.GamepadPrefix):]))
		if !schema.IsGamepadButton(button) {
			return "", fmt.Errorf("unknown gamepad button %q", button)
		}
		return schema.GamepadPrefix + button, nil
	}

	// a trailing "+" is the plus key itself
	parts := strings.Split(s, "+")
	keyPart := parts[len(parts)-1]
	mods := parts[:len(parts)-1]
	if len(parts) > 1 && parts[len(parts)-1] == "" && parts[len(parts)-2] == "" {
		keyPart = "+"
		mods = parts[:len(parts)-2]
	}

	var flags int
	for _, m := range mods {
		flag, ok := modifierNames[strings.ToLower(strings.TrimSpace(m))]
		if !ok {
			return "", fmt.Errorf("unknown modifier %q in %q", m, shortcut)
		}
		flags |= flag
	}

	key := canonicalKey(strings.TrimSpace(keyPart))
	if key == "" {
		return "", fmt.Errorf("shortcut %q has no key", shortcut)
	}

	chord := schema.KeyChord{
		Key:   key,
		Ctrl:  flags&modCtrl != 0,
		Alt:   flags&modAlt != 0,
		Shift: flags&modShift != 0,
		Super: flags&modSuper != 0,
	}
	return chord.Shortcut(), nil
}

func canonicalKey(key string) string {
	if named, ok := namedKeys[strings.ToLower(key)]; ok {
		return named
	}
	if len(key) == 1 {
		return strings.ToUpper(key)
	}
	return key
}
