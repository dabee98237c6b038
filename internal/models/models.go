package models

import "time"

// LoadSource says where a configuration document came from
type LoadSource string

const (
	SourceFile   LoadSource = "file"
	SourceText   LoadSource = "text"
	SourceReload LoadSource = "reload"
	SourceWatch  LoadSource = "watch"
)

// ConfigLoad is one recorded attempt to activate a configuration
type ConfigLoad struct {
	ID           string     `json:"id"`
	Source       LoadSource `json:"source"`
	Path         string     `json:"path,omitempty"`
	Success      bool       `json:"success"`
	ErrorKind    string     `json:"error_kind,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	Components   int        `json:"components"`
	Hotkeys      int        `json:"hotkeys"`
	LoadedAt     time.Time  `json:"loaded_at"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
