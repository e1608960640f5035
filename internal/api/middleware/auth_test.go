// internal/api/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authedHandler(key string) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return APIKeyAuth(key)(ok)
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/jobs/x", nil)
	w := httptest.NewRecorder()

	authedHandler("").ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with disabled auth, got %d", w.Code)
	}
}

func TestAPIKeyAuth_MissingKey(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/jobs/x", nil)
	w := httptest.NewRecorder()

	authedHandler("secret").ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", w.Code)
	}
}

func TestAPIKeyAuth_WrongKey(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/jobs/x", nil)
	req.Header.Set("X-API-Key", "wrong")
	w := httptest.NewRecorder()

	authedHandler("secret").ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", w.Code)
	}
}

func TestAPIKeyAuth_ValidKey(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/jobs/x", nil)
	req.Header.Set("X-API-Key", "secret")
	w := httptest.NewRecorder()

	authedHandler("secret").ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with valid key, got %d", w.Code)
	}
}
