package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lekhanhduy0411/tiemlen/pkg/auth"
	"github.com/lekhanhduy0411/tiemlen/pkg/middleware"
)

func okHandler(t *testing.T, wantID, wantRole string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.UserIDFromCtx(r.Context())
		if !ok || id != wantID {
			t.Errorf("user id in context: got %q ok=%v, want %q", id, ok, wantID)
		}
		role, ok := middleware.RoleFromCtx(r.Context())
		if !ok || role != wantRole {
			t.Errorf("role in context: got %q ok=%v, want %q", role, ok, wantRole)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthWithValidToken(t *testing.T) {
	token, err := auth.GenerateToken("65a000000000000000000001", "customer")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	handler := middleware.Auth(nil)(okHandler(t, "65a000000000000000000001", "customer"))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/my", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	handler := middleware.Auth(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler must not run without a valid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: expected 401, got %d", rec.Code)
	}
}

func TestAuthVerifierOverridesTokenRole(t *testing.T) {
	// The token says admin, but the store says the account was demoted.
	token, err := auth.GenerateToken("65a000000000000000000002", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	verify := func(_ context.Context, userID string) (string, bool) {
		if userID != "65a000000000000000000002" {
			t.Errorf("verifier got unexpected id: %s", userID)
		}
		return "customer", true
	}

	handler := middleware.Auth(verify)(okHandler(t, "65a000000000000000000002", "customer"))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAuthVerifierRejectsDisabledAccount(t *testing.T) {
	token, err := auth.GenerateToken("65a000000000000000000003", "customer")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	verify := func(context.Context, string) (string, bool) { return "", false }
	handler := middleware.Auth(verify)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler must not run for a disabled account")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	handler := middleware.RequireRole("admin", "staff")(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

	serve := func(role string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
		if role != "" {
			req = req.WithContext(middleware.WithUser(req.Context(), "65a000000000000000000004", role))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := serve("staff"); code != http.StatusNoContent {
		t.Errorf("staff: expected 204, got %d", code)
	}
	if code := serve("admin"); code != http.StatusNoContent {
		t.Errorf("admin: expected 204, got %d", code)
	}
	if code := serve("customer"); code != http.StatusForbidden {
		t.Errorf("customer: expected 403, got %d", code)
	}
	if code := serve(""); code != http.StatusForbidden {
		t.Errorf("anonymous: expected 403, got %d", code)
	}
}
