package handlers

import (
	"github.com/kai-65537/AOLOT-scoreboard/internal/engine"
	"github.com/kai-65537/AOLOT-scoreboard/internal/models"
)

// ChangedResponse reports whether a command altered the display
type ChangedResponse struct {
	Changed bool `json:"changed"`
}

// HotkeyResponse is one active binding
type HotkeyResponse struct {
	Shortcut string `json:"shortcut"`
	Action   string `json:"action"`
	ID       string `json:"id"`
}

// HotkeysResponse lists the active bindings
type HotkeysResponse struct {
	Paused   bool             `json:"paused"`
	Bindings []HotkeyResponse `json:"bindings"`
}

// HotkeysPauseResponse is the response for pausing or resuming hotkeys
type HotkeysPauseResponse struct {
	Paused bool `json:"paused"`
}

// StatusResponse summarises the running scoreboard
type StatusResponse struct {
	ActivePath    string `json:"active_path"`
	HotkeysPaused bool   `json:"hotkeys_paused"`
	Clients       int    `json:"clients"`
}

// HistoryResponse lists recent configuration loads
type HistoryResponse struct {
	Loads []models.ConfigLoad `json:"loads"`
}

func toHotkeyResponses(bindings []engine.HotkeyBinding) []HotkeyResponse {
	out := make([]HotkeyResponse, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, HotkeyResponse{
			Shortcut: b.Shortcut,
			Action:   b.Action.Kind.String(),
			ID:       b.Action.ID,
		})
	}
	return out
}
