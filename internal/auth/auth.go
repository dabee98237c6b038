// Package auth guards the control surface with an optional shared
// password. The overlay stays public so capture software can load it.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"sync"
	"time"
)

const (
	CookieName    = "scoreboard_session"
	SessionExpiry = 12 * time.Hour
)

// Auth tracks operator sessions. A zero password disables checking.
type Auth struct {
	password string
	now      func() time.Time
	sessions map[string]time.Time
	mu       sync.Mutex
}

// New creates an Auth for password; an empty password leaves every
// route open
func New(password string) *Auth {
	return &Auth{
		password: password,
		now:      time.Now,
		sessions: make(map[string]time.Time),
	}
}

// Enabled reports whether a password is required
func (a *Auth) Enabled() bool {
	return a != nil && a.password != ""
}

// Login validates the password and returns a session token if valid
func (a *Auth) Login(password string) (string, bool) {
	if !a.Enabled() {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) != 1 {
		return "", false
	}

	token := generateToken()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pruneLocked()
	a.sessions[token] = a.now().Add(SessionExpiry)
	return token, true
}

// Logout invalidates a session token
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

// ValidateSession checks if a session token is valid
func (a *Auth) ValidateSession(token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	expiry, ok := a.sessions[token]
	if !ok {
		return false
	}
	if a.now().After(expiry) {
		delete(a.sessions, token)
		return false
	}
	return true
}

// Authorized reports whether r may use the control surface
func (a *Auth) Authorized(r *http.Request) bool {
	if !a.Enabled() {
		return true
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	return a.ValidateSession(cookie.Value)
}

// RequireAuth redirects unauthenticated page requests to loginPath
func (a *Auth) RequireAuth(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a.Authorized(r) {
				next.ServeHTTP(w, r)
				return
			}
			http.Redirect(w, r, loginPath, http.StatusFound)
		})
	}
}

// RequireAuthAPI answers unauthenticated API requests with 401
func (a *Auth) RequireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.Authorized(r) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"UNAUTHORIZED","error":"Unauthorized - please log in"}`))
	})
}

// SetSessionCookie sets the session cookie on the response
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionExpiry.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// pruneLocked drops expired sessions; mu must be held
func (a *Auth) pruneLocked() {
	now := a.now()
	for token, expiry := range a.sessions {
		if now.After(expiry) {
			delete(a.sessions, token)
		}
	}
}

func generateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
