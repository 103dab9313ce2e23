package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 3})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("fourth request should be rejected")
	}
}

func TestLimitIsPerClient(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 1})
	defer l.Stop()

	if !l.Allow("1.2.3.4") {
		t.Fatal("first client should be allowed")
	}
	if !l.Allow("5.6.7.8") {
		t.Fatal("second client should have its own window")
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("first client should be over its limit")
	}
}

func TestRemoveStale(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 10})
	defer l.Stop()

	l.Allow("1.2.3.4")
	l.mu.Lock()
	l.clients["1.2.3.4"].lastRequest = time.Now().Add(-11 * time.Minute)
	l.mu.Unlock()

	l.removeStale()
	if got := l.ActiveClients(); got != 0 {
		t.Fatalf("expected stale client removed, have %d", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"remote addr with port", "10.0.0.1:52314", "", "10.0.0.1"},
		{"forwarded single", "10.0.0.1:52314", "203.0.113.7", "203.0.113.7"},
		{"forwarded chain takes first", "10.0.0.1:52314", "203.0.113.7,10.0.0.2", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientIP(r); got != tt.want {
				t.Fatalf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMiddlewareRejectsWithJSON(t *testing.T) {
	l := NewLimiter(Config{RequestsPerMinute: 1})
	defer l.Stop()

	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i, wantStatus := range []int{http.StatusOK, http.StatusTooManyRequests} {
		r := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		r.RemoteAddr = "1.2.3.4:1000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		if rec.Code != wantStatus {
			t.Fatalf("request %d: status = %d, want %d", i+1, rec.Code, wantStatus)
		}
	}
}
