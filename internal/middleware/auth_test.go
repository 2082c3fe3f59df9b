package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"blogapi/internal/identity"
)

// fakeResolver resolves one known token to a fixed caller.
type fakeResolver struct {
	token  string
	caller identity.Caller
}

func (r *fakeResolver) Resolve(_ context.Context, token string) (identity.Caller, error) {
	if token == r.token {
		return r.caller, nil
	}
	return identity.Anonymous, nil
}

func testCaller(admin bool) identity.Caller {
	return identity.Caller{
		UserID:        uuid.New(),
		Username:      "alice",
		Admin:         admin,
		Authenticated: true,
		Verified:      true,
	}
}

// callerEcho records the caller seen by the downstream handler.
func callerEcho(got *identity.Caller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = CallerFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestLoadCallerWithBearerToken(t *testing.T) {
	resolver := &fakeResolver{token: "sekrit", caller: testCaller(false)}

	var got identity.Caller
	handler := LoadCaller(resolver)(callerEcho(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !got.Authenticated {
		t.Error("expected authenticated caller")
	}
	if got.Username != "alice" {
		t.Errorf("username: got %q", got.Username)
	}
}

func TestLoadCallerAnonymousCases(t *testing.T) {
	resolver := &fakeResolver{token: "sekrit", caller: testCaller(false)}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic sekrit"},
		{"unknown token", "Bearer wrong"},
		{"empty bearer", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got identity.Caller
			handler := LoadCaller(resolver)(callerEcho(&got))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if got.Authenticated {
				t.Error("expected anonymous caller")
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Anonymous request is rejected.
	rec := httptest.NewRecorder()
	RequireAuth(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}

	// Authenticated request passes.
	ctx := context.WithValue(context.Background(), CallerKey, testCaller(false))
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec = httptest.NewRecorder()
	RequireAuth(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated: got %d, want 200", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Non-admin is rejected.
	ctx := context.WithValue(context.Background(), CallerKey, testCaller(false))
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin: got %d, want 403", rec.Code)
	}

	// Unverified admin is rejected.
	unverified := testCaller(true)
	unverified.Verified = false
	ctx = context.WithValue(context.Background(), CallerKey, unverified)
	req = httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("unverified admin: got %d, want 403", rec.Code)
	}

	// Verified admin passes.
	ctx = context.WithValue(context.Background(), CallerKey, testCaller(true))
	req = httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin: got %d, want 200", rec.Code)
	}
}
