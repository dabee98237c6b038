package engine

import (
	"fmt"
	"strings"
)

// ActionKind is the closed set of mutations a trigger can request
type ActionKind int

const (
	NumberIncrease ActionKind = iota
	NumberDecrease
	NumberReset
	TimerStart
	TimerStop
	TimerReset
	TimerIncrease
	TimerDecrease
	ImageToggleForward
	ImageToggleBackward
)

var actionNames = [...]string{
	NumberIncrease:      "number.increase",
	NumberDecrease:      "number.decrease",
	NumberReset:         "number.reset",
	TimerStart:          "timer.start",
	TimerStop:           "timer.stop",
	TimerReset:          "timer.reset",
	TimerIncrease:       "timer.increase",
	TimerDecrease:       "timer.decrease",
	ImageToggleForward:  "image-toggle.forward",
	ImageToggleBackward: "image-toggle.backward",
}

func (k ActionKind) String() string {
	if k < 0 || int(k) >= len(actionNames) {
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
	return actionNames[k]
}

// MarshalText renders the kind as its dotted name
func (k ActionKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(actionNames) {
		return nil, fmt.Errorf("unknown action kind %d", int(k))
	}
	return []byte(actionNames[k]), nil
}

// UnmarshalText accepts the dotted name produced by MarshalText
func (k *ActionKind) UnmarshalText(text []byte) error {
	parsed, err := ParseActionKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseActionKind resolves a dotted action name such as "timer.start"
func ParseActionKind(name string) (ActionKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range actionNames {
		if candidate == name {
			return ActionKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action '%s'", name)
}

// Action targets one component id
type Action struct {
	Kind ActionKind `json:"action"`
	ID   string     `json:"id"`
}

func (a Action) String() string {
	return a.Kind.String() + "(" + a.ID + ")"
}

// HotkeyBinding pairs a canonical shortcut with the action it fires
type HotkeyBinding struct {
	Shortcut string `json:"shortcut"`
	Action   Action `json:"action"`
}
