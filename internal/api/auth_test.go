package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"labkit/internal/token"
	"labkit/pkg/config"
)

type stubLoader struct {
	identity *Identity
}

func (s stubLoader) FindIdentity(ctx context.Context, userID string) (*Identity, error) {
	if s.identity == nil || s.identity.ID != userID {
		return nil, errors.New("not found")
	}
	return s.identity, nil
}

func TestAuthenticate(t *testing.T) {
	cfg := config.Config{JWTSecret: "test_secret"}
	loader := stubLoader{identity: &Identity{ID: "00000000-0000-4000-8000-000000000001", Role: "user"}}

	var got *Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Authenticate(cfg, loader)(next)

	// No token
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/bookings", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	// Valid token
	s, err := token.Issue(loader.identity.ID, cfg.JWTSecret, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest("GET", "/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+s)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
	if got == nil || got.ID != loader.identity.ID {
		t.Fatalf("identity not attached to context")
	}

	// Token for a user the loader rejects
	s, err = token.Issue("00000000-0000-4000-8000-00000000dead", cfg.JWTSecret, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req = httptest.NewRequest("GET", "/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+s)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdmin(next)

	req := httptest.NewRequest("POST", "/v1/users/approve", nil)
	req = req.WithContext(WithIdentity(req.Context(), &Identity{ID: "u1", Role: "user"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}

	req = httptest.NewRequest("POST", "/v1/users/approve", nil)
	req = req.WithContext(WithIdentity(req.Context(), &Identity{ID: "u2", Role: "admin"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}

	// No identity at all
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/v1/users/approve", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", rec.Code)
	}
}
