package engine

import (
	"github.com/kai-65537/AOLOT-scoreboard/internal/schema"
)

// CollectHotkeys lists one binding per bound chord of the active schema,
// in component id order.
func (s *State) CollectHotkeys() []HotkeyBinding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CollectHotkeys(s.schema)
}

// CollectHotkeys projects the keybinds of sb without touching any State
func CollectHotkeys(sb *schema.Scoreboard) []HotkeyBinding {
	if sb == nil {
		return nil
	}

	var bindings []HotkeyBinding
	add := func(chord *schema.KeyChord, kind ActionKind, id string) {
		if chord == nil {
			return
		}
		bindings = append(bindings, HotkeyBinding{
			Shortcut: chord.Shortcut(),
			Action:   Action{Kind: kind, ID: id},
		})
	}

	for _, c := range sb.Components {
		switch k := c.Kind.(type) {
		case *schema.Number:
			if kb := k.Keybind; kb != nil {
				add(kb.Increase, NumberIncrease, c.ID)
				add(kb.Decrease, NumberDecrease, c.ID)
				add(kb.Reset, NumberReset, c.ID)
			}
		case *schema.Timer:
			if kb := k.Keybind; kb != nil {
				add(kb.Start, TimerStart, c.ID)
				add(kb.Stop, TimerStop, c.ID)
				add(kb.Reset, TimerReset, c.ID)
				add(kb.Increase, TimerIncrease, c.ID)
				add(kb.Decrease, TimerDecrease, c.ID)
			}
		case *schema.ImageToggle:
			if kb := k.Keybind; kb != nil {
				add(kb.Forward, ImageToggleForward, c.ID)
				add(kb.Backward, ImageToggleBackward, c.ID)
			}
		}
	}
	return bindings
}
