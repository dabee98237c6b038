// Package schema holds the validated, immutable description of a
// scoreboard: global appearance plus an id-sorted list of components.
// Values of these types are produced by the compiler and only read
// afterwards.
package schema

import (
	"encoding/json"
	"sort"
)

// Canvas bounds; positions must lie in [0,CanvasWidth)x[0,CanvasHeight).
const (
	CanvasWidth  = 640
	CanvasHeight = 480
)

// Built-in fallbacks used when the document has no global section.
const (
	DefaultFontFamily      = "Segoe UI"
	DefaultFontSize        = 28
	DefaultFontColor       = "#FFFFFF"
	DefaultBackgroundColor = "#000000"
)

// Type names as written in documents and snapshots.
const (
	TypeNumber      = "number"
	TypeTimer       = "timer"
	TypeLabel       = "label"
	TypeImage       = "image"
	TypeImageToggle = "image-toggle"
)

// Scoreboard is a compiled document
type Scoreboard struct {
	Global     GlobalSettings `json:"global"`
	Components []Component    `json:"components"`
}

// GlobalSettings applies to the whole canvas
type GlobalSettings struct {
	BackgroundColor string `json:"background_color"`
	Font            Font   `json:"font"`
}

// Font is fully resolved: every field is set
type Font struct {
	Family string `json:"family"`
	Size   int    `json:"size"`
	Color  string `json:"color"`
}

// Position is a canvas coordinate in pixels
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Alignment is the optional horizontal anchor of a component
type Alignment string

const (
	AlignNone   Alignment = ""
	AlignCenter Alignment = "center"
)

// Component is one positioned element of the scoreboard
type Component struct {
	ID        string
	Position  Position
	Alignment Alignment
	Font      Font
	Kind      Kind
}

// Type returns the document type name of the component's kind
func (c Component) Type() string {
	if c.Kind == nil {
		return ""
	}
	return c.Kind.TypeName()
}

// MarshalJSON flattens the kind under a "kind" key next to its type name
func (c Component) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        string    `json:"id"`
		Type      string    `json:"type"`
		Position  Position  `json:"position"`
		Alignment Alignment `json:"alignment,omitempty"`
		Font      Font      `json:"font"`
		Kind      Kind      `json:"kind"`
	}{c.ID, c.Type(), c.Position, c.Alignment, c.Font, c.Kind})
}

// Component returns the component with the given id. Components must be
// sorted by id, which the compiler guarantees.
func (s *Scoreboard) Component(id string) (*Component, bool) {
	if s == nil {
		return nil, false
	}
	i := sort.Search(len(s.Components), func(i int) bool {
		return s.Components[i].ID >= id
	})
	if i < len(s.Components) && s.Components[i].ID == id {
		return &s.Components[i], true
	}
	return nil, false
}

// SortComponents orders components by id
func (s *Scoreboard) SortComponents() {
	sort.Slice(s.Components, func(i, j int) bool {
		return s.Components[i].ID < s.Components[j].ID
	})
}
