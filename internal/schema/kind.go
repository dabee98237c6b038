package schema

import (
	"fmt"
	"strings"
)

// Kind is the closed set of component variants: *Number, *Timer, *Label,
// *Image and *ImageToggle.
type Kind interface {
	TypeName() string
	isKind()
}

// Number is an integer counter
type Number struct {
	Default int            `json:"default"`
	Keybind *NumberKeybind `json:"keybind,omitempty"`
}

// NumberKeybind binds counter actions; nil chords are unbound
type NumberKeybind struct {
	Increase *KeyChord `json:"increase,omitempty"`
	Decrease *KeyChord `json:"decrease,omitempty"`
	Reset    *KeyChord `json:"reset,omitempty"`
}

// Timer is a countdown clock
type Timer struct {
	DefaultMs int64         `json:"default_ms"`
	Rounding  Rounding      `json:"rounding"`
	Keybind   *TimerKeybind `json:"keybind,omitempty"`
}

// TimerKeybind binds clock actions; nil chords are unbound
type TimerKeybind struct {
	Start    *KeyChord `json:"start,omitempty"`
	Stop     *KeyChord `json:"stop,omitempty"`
	Reset    *KeyChord `json:"reset,omitempty"`
	Increase *KeyChord `json:"increase,omitempty"`
	Decrease *KeyChord `json:"decrease,omitempty"`
}

// Label is a single line of text, optionally editable at runtime
type Label struct {
	Default string `json:"default"`
	Edit    bool   `json:"edit"`
}

// Image is a static picture; Source is an absolute path
type Image struct {
	Source  string  `json:"source"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Opacity float64 `json:"opacity"`
}

// ImageToggle cycles through Sources; all paths are absolute
type ImageToggle struct {
	Sources []string            `json:"sources"`
	Width   int                 `json:"width"`
	Height  int                 `json:"height"`
	Opacity float64             `json:"opacity"`
	Keybind *ImageToggleKeybind `json:"keybind,omitempty"`
}

// ImageToggleKeybind binds cycling actions; nil chords are unbound
type ImageToggleKeybind struct {
	Forward  *KeyChord `json:"forward,omitempty"`
	Backward *KeyChord `json:"backward,omitempty"`
}

func (*Number) TypeName() string      { return TypeNumber }
func (*Timer) TypeName() string       { return TypeTimer }
func (*Label) TypeName() string       { return TypeLabel }
func (*Image) TypeName() string       { return TypeImage }
func (*ImageToggle) TypeName() string { return TypeImageToggle }

func (*Number) isKind()      {}
func (*Timer) isKind()       {}
func (*Label) isKind()       {}
func (*Image) isKind()       {}
func (*ImageToggle) isKind() {}

// Rounding selects how a timer renders its remaining time
type Rounding int

const (
	RoundingStandard Rounding = iota
	RoundingBasketball
)

// ParseRounding accepts "standard" or "basketball" in any case
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard":
		return RoundingStandard, nil
	case "basketball":
		return RoundingBasketball, nil
	}
	return RoundingStandard, fmt.Errorf("unsupported timer rounding '%s' (expected 'standard' or 'basketball')", s)
}

func (r Rounding) String() string {
	if r == RoundingBasketball {
		return "basketball"
	}
	return "standard"
}

// MarshalText implements encoding.TextMarshaler
func (r Rounding) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
