package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)

	// Pages and static files (served from embedded filesystem)
	if h.templates != nil {
		r.Get("/", h.handleOverlay)
		r.Get("/control/login", h.handleLoginPage)
		r.Post("/control/login", h.handleLogin)
		r.Post("/control/logout", h.handleLogout)
		r.With(h.Auth.RequireAuth("/control/login")).Get("/control", h.handleControl)
	}
	if h.staticServer != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))
	}

	// WebSocket (long-lived, outside the request timeout)
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		// Public: read by the overlay
		r.Get("/snapshot", h.handleSnapshot)
		r.Get("/images/{id}", h.handleImageFile)

		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAuthAPI)

			r.Get("/status", h.handleStatus)
			r.Get("/history", h.handleHistory)
			r.Get("/qr", h.handleQR)

			// Triggers
			r.Post("/actions", h.handleAction)
			r.Post("/triggers", h.handleTrigger)
			r.Post("/gamepad/{button}", h.handleGamepad)

			// Component edits
			r.Put("/labels/{id}", h.handleSetLabel)
			r.Put("/images/{id}", h.handleSetImage)

			// Configuration
			r.Post("/config/text", h.handleLoadText)
			r.Post("/config/file", h.handleLoadFile)
			r.Post("/config/reload", h.handleReload)

			// Hotkeys
			r.Get("/hotkeys", h.handleGetHotkeys)
			r.Post("/hotkeys/pause", h.handlePauseHotkeys)
		})
	})

	return r
}
