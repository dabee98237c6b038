package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kai-65537/AOLOT-scoreboard/internal/auth"
	"github.com/kai-65537/AOLOT-scoreboard/internal/engine"
	"github.com/kai-65537/AOLOT-scoreboard/internal/handlers"
	"github.com/kai-65537/AOLOT-scoreboard/internal/logger"
	"github.com/kai-65537/AOLOT-scoreboard/internal/services"
)

func newSecuredRouter(t *testing.T, password string) chi.Router {
	t.Helper()
	svc := services.NewScoreboardService(logger.Discard(), engine.New(nil), nil)
	h, err := handlers.New(svc, createTestTemplatesFS(), nil, nil, handlers.NoopHTTPLogger{})
	if err != nil {
		t.Fatal(err)
	}
	h.Auth = auth.New(password)
	return h.Router()
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router http.Handler, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/control/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(router, req)
}

func TestAuth_ProtectsControlSurface(t *testing.T) {
	router := newSecuredRouter(t, "courtside")

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/control", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/control/login" {
		t.Errorf("expected redirect to login, got %d %s", rec.Code, rec.Header().Get("Location"))
	}

	protected := []struct{ method, path string }{
		{http.MethodGet, "/api/status"},
		{http.MethodGet, "/api/hotkeys"},
		{http.MethodPost, "/api/actions"},
		{http.MethodPost, "/api/config/reload"},
		{http.MethodPut, "/api/labels/title"},
	}
	for _, p := range protected {
		rec := serve(router, httptest.NewRequest(p.method, p.path, strings.NewReader(`{}`)))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", p.method, p.path, rec.Code)
		}
	}
}

func TestAuth_OverlayStaysPublic(t *testing.T) {
	router := newSecuredRouter(t, "courtside")

	for _, path := range []string{"/", "/api/snapshot"} {
		rec := serve(router, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestAuth_LoginFlow(t *testing.T) {
	router := newSecuredRouter(t, "courtside")

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/control/login", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Scoreboard Login") {
		t.Fatalf("expected login page, got %d %s", rec.Code, rec.Body.String())
	}

	rec = login(t, router, "wrong")
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "Invalid password") {
		t.Errorf("expected invalid password page, got %d %s", rec.Code, rec.Body.String())
	}

	rec = login(t, router, "courtside")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/control" {
		t.Fatalf("expected redirect to control, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != auth.CookieName {
		t.Fatalf("expected session cookie, got %+v", cookies)
	}
	session := cookies[0]

	for _, path := range []string{"/control", "/api/status", "/api/hotkeys"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(session)
		if rec := serve(router, req); rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200 with session, got %d", path, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/control/login", nil)
	req.AddCookie(session)
	if rec := serve(router, req); rec.Code != http.StatusFound {
		t.Errorf("expected logged-in visit to login page to redirect, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/control/logout", nil)
	req.AddCookie(session)
	if rec := serve(router, req); rec.Code != http.StatusFound || rec.Header().Get("Location") != "/control/login" {
		t.Errorf("expected logout redirect, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.AddCookie(session)
	if rec := serve(router, req); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestAuth_EmptyPasswordLeavesRoutesOpen(t *testing.T) {
	router := newSecuredRouter(t, "")

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/control", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected open control page, got %d", rec.Code)
	}
	rec = serve(router, httptest.NewRequest(http.MethodGet, "/control/login", nil))
	if rec.Code != http.StatusFound {
		t.Errorf("expected login page to redirect when no password is set, got %d", rec.Code)
	}
}
