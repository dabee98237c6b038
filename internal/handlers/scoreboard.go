package handlers

import (
	"net/http"
	"strings"

	"github.com/kai-65537/AOLOT-scoreboard/internal/engine"
)

const defaultHistoryLimit = 20

// ==================== Queries ====================

func (h *Handlers) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Scoreboard.Snapshot())
}

func (h *Handlers) handleStatus(w http.ResponseWriter, r *http.Request) {
	clients := 0
	if h.Hub != nil {
		clients = h.Hub.ClientCount()
	}
	respondOK(w, StatusResponse{
		ActivePath:    h.Scoreboard.ActivePath(),
		HotkeysPaused: h.Scoreboard.HotkeysPaused(),
		Clients:       clients,
	})
}

func (h *Handlers) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntQuery(r, "limit", defaultHistoryLimit)
	if err != nil {
		respondError(w, err)
		return
	}

	loads, err := h.Scoreboard.History(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, HistoryResponse{Loads: loads})
}

// ==================== Triggers ====================

func (h *Handlers) handleAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		respondError(w, BadRequest("Component id is required"))
		return
	}

	kind, err := engine.ParseActionKind(req.Action)
	if err != nil {
		respondError(w, NewAPIError(http.StatusBadRequest, ErrCodeValidation, err.Error()))
		return
	}

	changed := h.Scoreboard.Dispatch(engine.Action{Kind: kind, ID: req.ID})
	respondOK(w, ChangedResponse{Changed: changed})
}

func (h *Handlers) handleTrigger(w http.ResponseWriter, r *http.Request) {
	var req TriggerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if strings.TrimSpace(req.Shortcut) == "" {
		respondError(w, BadRequest("Shortcut is required"))
		return
	}

	changed, err := h.Scoreboard.Trigger(req.Shortcut)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, ChangedResponse{Changed: changed})
}

func (h *Handlers) handleGamepad(w http.ResponseWriter, r *http.Request) {
	button, err := requireParam(r, "button")
	if err != nil {
		respondError(w, err)
		return
	}

	changed, err := h.Scoreboard.TriggerGamepad(strings.ToUpper(button))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, ChangedResponse{Changed: changed})
}

// ==================== Component edits ====================

func (h *Handlers) handleSetLabel(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req LabelUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	changed, err := h.Scoreboard.SetLabel(id, req.Value)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, ChangedResponse{Changed: changed})
}

func (h *Handlers) handleSetImage(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req ImageUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	changed, err := h.Scoreboard.SetImageSource(id, req.Source)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, ChangedResponse{Changed: changed})
}

// ==================== Configuration ====================

func (h *Handlers) handleLoadText(w http.ResponseWriter, r *http.Request) {
	var req ConfigTextRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Scoreboard.LoadText(r.Context(), req.Content)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleLoadFile(w http.ResponseWriter, r *http.Request) {
	var req ConfigFileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		respondError(w, BadRequest("Path is required"))
		return
	}

	result, err := h.Scoreboard.LoadFile(r.Context(), req.Path)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleReload(w http.ResponseWriter, r *http.Request) {
	result, err := h.Scoreboard.Reload(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

// ==================== Hotkeys ====================

func (h *Handlers) handleGetHotkeys(w http.ResponseWriter, r *http.Request) {
	respondOK(w, HotkeysResponse{
		Paused:   h.Scoreboard.HotkeysPaused(),
		Bindings: toHotkeyResponses(h.Scoreboard.Hotkeys()),
	})
}

func (h *Handlers) handlePauseHotkeys(w http.ResponseWriter, r *http.Request) {
	var req HotkeysPauseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Scoreboard.SetHotkeysPaused(r.Context(), req.Paused); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, HotkeysPauseResponse{Paused: h.Scoreboard.HotkeysPaused()})
}
