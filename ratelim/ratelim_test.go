package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
)

func TestLimitExhaustsBurstPerAddress(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	allowed, throttled := 0, 0
	for n := 0; n < 20; n++ {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/timeline", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler(w, r, nil)

		switch w.Code {
		case http.StatusOK:
			allowed++
		case http.StatusTooManyRequests:
			throttled++
		default:
			t.Fatalf("unexpected status %d", w.Code)
		}
	}

	if allowed < 10 {
		t.Fatalf("allowed = %d, want at least the burst of 10", allowed)
	}
	if throttled == 0 {
		t.Fatal("no request was throttled after the burst")
	}

	// A different address gets its own bucket.
	r := httptest.NewRequest(http.MethodGet, "/api/v1/timeline", nil)
	r.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	handler(w, r, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("fresh address got %d, want 200", w.Code)
	}
}
