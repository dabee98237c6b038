package hotkeys

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// xterm modifier parameter (value-1 is a Shift=1, Alt=2, Ctrl=4 bitmask)
func xtermModifiers(param int) int {
	bits := param - 1
	var flags int
	if bits&1 != 0 {
		flags |= modShift
	}
	if bits&2 != 0 {
		flags |= modAlt
	}
	if bits&4 != 0 {
		flags |= modCtrl
	}
	return flags
}

var csiFinal = map[byte]string{
	'A': "Up", 'B': "Down", 'C': "Right", 'D': "Left",
	'H': "Home", 'F': "End",
	'P': "F1", 'Q': "F2", 'R': "F3", 'S': "F4",
}

var csiTilde = map[int]string{
	1: "Home", 2: "Insert", 3: "Delete", 4: "End", 5: "PageUp", 6: "PageDown",
	7: "Home", 8: "End",
	11: "F1", 12: "F2", 13: "F3", 14: "F4",
	15: "F5", 17: "F6", 18: "F7", 19: "F8", 20: "F9", 21: "F10", 23: "F11", 24: "F12",
}

// DecodeTerminal turns raw-mode terminal input into canonical shortcuts.
// Unrecognised escape sequences are skipped.
func DecodeTerminal(input []byte) []string {
	var out []string
	for len(input) > 0 {
		shortcut, n := decodeOne(input)
		if shortcut != "" {
			out = append(out, shortcut)
		}
		input = input[n:]
	}
	return out
}

func decodeOne(b []byte) (string, int) {
	c := b[0]
	if c == 0x1b {
		if len(b) == 1 {
			return "Escape", 1
		}
		switch b[1] {
		case '[':
			return decodeCSI(b)
		case 'O':
			if len(b) >= 3 {
				if key, ok := csiFinal[b[2]]; ok {
					return key, 3
				}
			}
			return "", min(len(b), 3)
		}
		// ESC followed by a key is Alt+key
		inner, n := decodeOne(b[1:])
		if inner == "" {
			return "", 1 + n
		}
		return withModifiers(inner, modAlt), 1 + n
	}
	return decodeByte(b)
}

func decodeByte(b []byte) (string, int) {
	c := b[0]
	switch {
	case c == '\r' || c == '\n':
		return "Enter", 1
	case c == '\t':
		return "Tab", 1
	case c == 0x7f || c == 0x08:
		return "Backspace", 1
	case c == ' ':
		return "Space", 1
	case c == 0x00:
		return "Ctrl+Space", 1
	case c >= 0x01 && c <= 0x1a:
		return "Ctrl+" + string(rune('A'+c-1)), 1
	case c < 0x20:
		return "", 1
	case c >= 'A' && c <= 'Z':
		return "Shift+" + string(c), 1
	case c >= 'a' && c <= 'z':
		return strings.ToUpper(string(c)), 1
	}

	r, n := utf8.DecodeRune(b)
	if r == utf8.RuneError {
		return "", max(n, 1)
	}
	return string(r), n
}

// decodeCSI handles ESC [ params final
func decodeCSI(b []byte) (string, int) {
	i := 2
	for i < len(b) && (b[i] == ';' || (b[i] >= '0' && b[i] <= '9')) {
		i++
	}
	if i >= len(b) {
		return "", len(b)
	}
	final := b[i]
	params := strings.Split(string(b[2:i]), ";")
	n := i + 1

	var key string
	if final == '~' {
		code, err := strconv.Atoi(params[0])
		if err != nil {
			return "", n
		}
		key = csiTilde[code]
	} else {
		key = csiFinal[final]
	}
	if key == "" {
		return "", n
	}

	flags := 0
	if len(params) == 2 {
		if param, err := strconv.Atoi(params[1]); err == nil {
			flags = xtermModifiers(param)
		}
	}
	return withModifiers(key, flags), n
}

// withModifiers adds flags to an already canonical shortcut
func withModifiers(shortcut string, flags int) string {
	key := shortcut
	if i := strings.LastIndex(shortcut[:len(shortcut)-1], "+"); i >= 0 {
		key = shortcut[i+1:]
		for _, m := range strings.Split(shortcut[:i], "+") {
			flags |= modifierNames[strings.ToLower(m)]
		}
	}
	var b strings.Builder
	for _, m := range []struct {
		flag int
		name string
	}{{modCtrl, "Ctrl"}, {modAlt, "Alt"}, {modShift, "Shift"}, {modSuper, "Super"}} {
		if flags&m.flag != 0 {
			b.WriteString(m.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(key)
	return b.String()
}
