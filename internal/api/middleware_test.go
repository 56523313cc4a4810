package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareNoToken(t *testing.T) {
	handler := AuthMiddleware("", okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/edges", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when auth is disabled", rec.Code)
	}
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	handler := AuthMiddleware("secret", okHandler())

	req := httptest.NewRequest("GET", "/api/edges", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with valid token", rec.Code)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	handler := AuthMiddleware("secret", okHandler())

	req := httptest.NewRequest("GET", "/api/edges", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 with invalid token", rec.Code)
	}
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	handler := AuthMiddleware("secret", okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/edges", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without Authorization header", rec.Code)
	}
}

func TestAuthMiddlewareSkipsNonAPIRoutes(t *testing.T) {
	handler := AuthMiddleware("secret", okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/mcp", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for non-API route", rec.Code)
	}
}

func TestAuthMiddlewareBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	handler := AuthMiddleware(string(hash), okHandler())

	req := httptest.NewRequest("GET", "/api/edges", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with matching bcrypt hash", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/edges", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 with non-matching bcrypt hash", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeadersMiddleware(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/edges", nil))

	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS set on plain HTTP request: %q", got)
	}

	req := httptest.NewRequest("GET", "/api/edges", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Strict-Transport-Security"); got == "" {
		t.Error("HSTS missing on forwarded HTTPS request")
	}
}
