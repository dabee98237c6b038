package handlers

import (
	"net/http"

	"github.com/skip2/go-qrcode"

	"github.com/kai-65537/AOLOT-scoreboard/internal/auth"
)

// handleImageFile serves the file currently displayed by an image or
// image-toggle component
func (h *Handlers) handleImageFile(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	path, err := h.Scoreboard.ImageFile(id)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeFile(w, r, path)
}

func (h *Handlers) handleOverlay(w http.ResponseWriter, r *http.Request) {
	h.templates.Overlay.Execute(w, PageData{Title: "Scoreboard", WSPath: "/ws"})
}

func (h *Handlers) handleControl(w http.ResponseWriter, r *http.Request) {
	h.templates.Control.Execute(w, PageData{Title: "Scoreboard Control", WSPath: "/ws", Secure: h.Auth.Enabled()})
}

// handleLoginPage renders the operator login form
func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if !h.Auth.Enabled() || h.Auth.Authorized(r) {
		http.Redirect(w, r, "/control", http.StatusFound)
		return
	}
	h.templates.Login.Execute(w, PageData{Title: "Scoreboard Login"})
}

// handleLogin processes login form submission
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	token, ok := h.Auth.Login(r.FormValue("password"))
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		h.templates.Login.Execute(w, PageData{Title: "Scoreboard Login", Error: "Invalid password"})
		return
	}

	auth.SetSessionCookie(w, token)
	http.Redirect(w, r, "/control", http.StatusFound)
}

// handleLogout clears the session and redirects to login
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil && h.Auth != nil {
		h.Auth.Logout(cookie.Value)
	}

	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/control/login", http.StatusFound)
}

// handleQR renders a QR code pointing at the overlay (default) or the
// control page, so a phone on the same network can open it
func (h *Handlers) handleQR(w http.ResponseWriter, r *http.Request) {
	path := "/"
	switch r.URL.Query().Get("target") {
	case "", "overlay":
	case "control":
		path = "/control"
	default:
		respondError(w, BadRequest("Invalid target parameter (expected overlay or control)"))
		return
	}

	png, err := qrcode.Encode(PageURL(r, path), qrcode.Medium, 256)
	if err != nil {
		respondError(w, InternalError(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// PageURL builds an absolute URL on the host the request came in on
func PageURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}
