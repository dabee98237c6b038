package engine

import (
	"strconv"

	"github.com/kai-65537/AOLOT-scoreboard/internal/schema"
)

// Snapshot is a fully resolved, point-in-time view of the scoreboard. It
// shares no memory with the State that produced it.
type Snapshot struct {
	BackgroundColor string          `json:"background_color"`
	Components      []ComponentView `json:"components"`
}

// ComponentView is the display record of one component. Kind-specific
// fields are nil when they do not apply.
type ComponentView struct {
	ID            string   `json:"id"`
	ComponentType string   `json:"component_type"`
	X             int      `json:"x"`
	Y             int      `json:"y"`
	Alignment     *string  `json:"alignment"`
	FontFamily    string   `json:"font_family"`
	FontSize      int      `json:"font_size"`
	FontColor     string   `json:"font_color"`
	Text          *string  `json:"text"`
	Source        *string  `json:"source"`
	Sources       []string `json:"sources,omitempty"`
	Index         *int     `json:"index,omitempty"`
	Width         *int     `json:"width"`
	Height        *int     `json:"height"`
	Opacity       *float64 `json:"opacity"`
	Editable      bool     `json:"editable"`
	Running       *bool    `json:"running,omitempty"`
}

// Snapshot renders the current values without mutating anything
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schema == nil {
		return Snapshot{BackgroundColor: schema.DefaultBackgroundColor, Components: []ComponentView{}}
	}

	views := make([]ComponentView, 0, len(s.schema.Components))
	for _, c := range s.schema.Components {
		views = append(views, s.view(c))
	}
	return Snapshot{
		BackgroundColor: s.schema.Global.BackgroundColor,
		Components:      views,
	}
}

// view must be called with mu held
func (s *State) view(c schema.Component) ComponentView {
	v := ComponentView{
		ID:            c.ID,
		ComponentType: c.Type(),
		X:             c.Position.X,
		Y:             c.Position.Y,
		FontFamily:    c.Font.Family,
		FontSize:      c.Font.Size,
		FontColor:     c.Font.Color,
	}
	if c.Alignment != schema.AlignNone {
		v.Alignment = ptr(string(c.Alignment))
	}

	switch k := c.Kind.(type) {
	case *schema.Number:
		v.Text = ptr(strconv.Itoa(s.numbers[c.ID]))

	case *schema.Timer:
		var remaining int64
		running := false
		if t, ok := s.timers[c.ID]; ok {
			remaining, running = t.remainingMs, t.running
		}
		v.Text = ptr(FormatMs(remaining, k.Rounding))
		v.Running = ptr(running)

	case *schema.Label:
		v.Text = ptr(s.labels[c.ID])
		v.Editable = k.Edit

	case *schema.Image:
		source := k.Source
		if override, ok := s.overlays[c.ID]; ok {
			source = override
		}
		v.Source = ptr(source)
		v.Width, v.Height, v.Opacity = ptr(k.Width), ptr(k.Height), ptr(k.Opacity)

	case *schema.ImageToggle:
		if n := len(k.Sources); n > 0 {
			index := s.toggles[c.ID] % n
			v.Source = ptr(k.Sources[index])
			v.Index = ptr(index)
		}
		v.Sources = append([]string(nil), k.Sources...)
		v.Width, v.Height, v.Opacity = ptr(k.Width), ptr(k.Height), ptr(k.Opacity)
	}
	return v
}

func ptr[T any](v T) *T {
	return &v
}
