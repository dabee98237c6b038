package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/kai-65537/AOLOT-scoreboard/internal/auth"
	"github.com/kai-65537/AOLOT-scoreboard/internal/services"
	"github.com/kai-65537/AOLOT-scoreboard/web"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// PageData holds the data passed to page templates
type PageData struct {
	Title  string
	WSPath string
	Error  string
	Secure bool
}

// Templates holds all parsed HTML templates
type Templates struct {
	Overlay *template.Template
	Control *template.Template
	Login   *template.Template
}

// WSServer upgrades overlay connections
type WSServer interface {
	ServeWs(w http.ResponseWriter, r *http.Request)
	ClientCount() int
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Scoreboard   services.ScoreboardServicer
	Hub          WSServer
	Log          HTTPLogger
	Auth         *auth.Auth // nil or passwordless leaves the control surface open
	templates    *Templates
	staticServer http.Handler
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	scoreboard services.ScoreboardServicer,
	templatesFS fs.FS,
	staticServer http.Handler,
	hub WSServer,
	log HTTPLogger,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return &Handlers{
		Scoreboard:   scoreboard,
		Hub:          hub,
		Log:          log,
		templates:    templates,
		staticServer: staticServer,
	}, nil
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without templates, static
// files or websocket hub (for testing API endpoints)
func NewForTesting(scoreboard services.ScoreboardServicer) *Handlers {
	return &Handlers{
		Scoreboard: scoreboard,
		Log:        NoopHTTPLogger{},
	}
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Overlay, err = template.ParseFS(templatesFS, web.OverlayTemplate); err != nil {
		return nil, fmt.Errorf("overlay template: %w", err)
	}
	if t.Control, err = template.ParseFS(templatesFS, web.ControlTemplate); err != nil {
		return nil, fmt.Errorf("control template: %w", err)
	}
	if t.Login, err = template.ParseFS(templatesFS, web.LoginTemplate); err != nil {
		return nil, fmt.Errorf("login template: %w", err)
	}

	return t, nil
}
