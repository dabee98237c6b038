package handlers

// ActionRequest applies a named action to a component
type ActionRequest struct {
	Action string `json:"action"`
	ID     string `json:"id"`
}

// TriggerRequest fires the action bound to a shortcut
type TriggerRequest struct {
	Shortcut string `json:"shortcut"`
}

// LabelUpdateRequest sets an editable label
type LabelUpdateRequest struct {
	Value string `json:"value"`
}

// ImageUpdateRequest overrides an image source
type ImageUpdateRequest struct {
	Source string `json:"source"`
}

// ConfigTextRequest loads an inline document
type ConfigTextRequest struct {
	Content string `json:"content"`
}

// ConfigFileRequest loads a document from disk
type ConfigFileRequest struct {
	Path string `json:"path"`
}

// HotkeysPauseRequest pauses or resumes hotkeys
type HotkeysPauseRequest struct {
	Paused bool `json:"paused"`
}
