package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	verifier, _ := testutil.NewTestVerifier(t)
	return SetupRouter(Deps{
		Verifier:       verifier,
		Permissions:    auth.Permissions{"ADMIN": {"user:view"}},
		AllowedOrigins: []string{"http://localhost:3000"},
	})
}

// TestHealth tests the public health endpoint
func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != `{"status":"ok","service":"maternal-care-service"}` {
		t.Errorf("Unexpected body: %s", got)
	}
}

// TestProtectedRoutes_RequireToken tests that protected routes reject anonymous calls
func TestProtectedRoutes_RequireToken(t *testing.T) {
	router := newTestRouter(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/me"},
		{http.MethodGet, "/mothers"},
		{http.MethodPost, "/mothers/MOM-0001/examinations"},
		{http.MethodGet, "/provider/appointments"},
		{http.MethodGet, "/mother/dashboard"},
		{http.MethodPost, "/mother/emergency"},
		{http.MethodGet, "/admin/settings"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(rt.method, rt.path, nil))
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", rec.Code)
			}
		})
	}
}

// TestRouter_RejectsInvalidToken tests that a forged token never reaches the database
func TestRouter_RejectsInvalidToken(t *testing.T) {
	router := newTestRouter(t)

	otherKey, _ := testutil.GenerateTestKeyPair(t)
	token := testutil.GenerateTestJWT(t, otherKey, "subject-1", "adm-0001", "admin")

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

// TestRouter_CORSPreflight tests that allowed origins get CORS headers
func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/mothers", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Expected allowed origin header, got %q", got)
	}
}

// TestRouter_UnknownRoute tests that unknown paths are 404
func TestRouter_UnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/billing/invoices", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
