package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogapi/internal/identity"
)

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Stop()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := rl.Middleware(next)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("over limit: got %d, want 429", rec.Code)
	}

	// A different client is unaffected.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other client: got %d, want 200", rec.Code)
	}
}

func TestRateLimiterKeysByCaller(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := rl.Middleware(next)

	// Two different authenticated callers from the same IP get separate
	// budgets.
	for _, caller := range []identity.Caller{testCaller(false), testCaller(false)} {
		ctx := context.WithValue(context.Background(), CallerKey, caller)
		req := httptest.NewRequest(http.MethodPost, "/", nil).WithContext(ctx)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("caller %s: got %d, want 200", caller.UserID, rec.Code)
		}
	}
}

func TestClientIPHeaders(t *testing.T) {
	tests := []struct {
		name string
		xff  string
		xri  string
		want string
	}{
		{"forwarded single", "1.2.3.4", "", "1.2.3.4"},
		{"forwarded chain", "1.2.3.4, 10.0.0.1", "", "1.2.3.4"},
		{"real ip", "", "5.6.7.8", "5.6.7.8"},
		{"remote addr", "", "", "9.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "9.9.9.9:4242"
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
