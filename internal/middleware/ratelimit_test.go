package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func limitedRequest(t *testing.T, h http.Handler, path, addr string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.URL.Path = path
	req.RemoteAddr = addr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimitPathBurst(t *testing.T) {
	h := RateLimitPath("tokens", 1, 2)(okHandler())

	for i := 0; i < 2; i++ {
		if w := limitedRequest(t, h, "/tokens", "10.0.0.1:5000"); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}

	w := limitedRequest(t, h, "/tokens", "10.0.0.1:5000")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("request past burst status = %d, want 429", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshaling 429 body: %v", err)
	}
	if body["Error"] != "Too many requests" {
		t.Errorf("429 body = %v, want Error: Too many requests", body)
	}
}

func TestRateLimitPathMatchesSlashVariants(t *testing.T) {
	// All spellings of the path share one bucket, so a client cannot
	// reset its budget by adding slashes.
	h := RateLimitPath("tokens", 1, 1)(okHandler())

	if w := limitedRequest(t, h, "/tokens", "10.0.0.1:5000"); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}
	for _, path := range []string{"/tokens/", "//tokens", "/tokens"} {
		if w := limitedRequest(t, h, path, "10.0.0.1:5000"); w.Code != http.StatusTooManyRequests {
			t.Errorf("%s status = %d, want 429", path, w.Code)
		}
	}
}

func TestRateLimitPathIgnoresOtherPaths(t *testing.T) {
	h := RateLimitPath("tokens", 1, 1)(okHandler())

	for i := 0; i < 5; i++ {
		if w := limitedRequest(t, h, "/users", "10.0.0.1:5000"); w.Code != http.StatusOK {
			t.Fatalf("unlimited path request %d status = %d, want 200", i+1, w.Code)
		}
	}
}

func TestRateLimitPathPerClient(t *testing.T) {
	h := RateLimitPath("tokens", 1, 1)(okHandler())

	if w := limitedRequest(t, h, "/tokens", "10.0.0.1:5000"); w.Code != http.StatusOK {
		t.Fatalf("first client status = %d, want 200", w.Code)
	}
	if w := limitedRequest(t, h, "/tokens", "10.0.0.2:5000"); w.Code != http.StatusOK {
		t.Errorf("second client status = %d, want 200", w.Code)
	}
	if w := limitedRequest(t, h, "/tokens", "10.0.0.1:5000"); w.Code != http.StatusTooManyRequests {
		t.Errorf("first client repeat status = %d, want 429", w.Code)
	}
}

func TestIdleVisitorsPruned(t *testing.T) {
	rl := newIPRateLimiter(1, 1)
	rl.getLimiter("10.0.0.1")

	rl.mu.Lock()
	rl.visitors["10.0.0.1"].lastSeen = time.Now().Add(-2 * visitorTTL)
	rl.lastSweep = time.Now().Add(-2 * visitorTTL)
	rl.mu.Unlock()

	rl.getLimiter("10.0.0.2")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["10.0.0.1"]; ok {
		t.Error("idle visitor survived the sweep")
	}
	if _, ok := rl.visitors["10.0.0.2"]; !ok {
		t.Error("active visitor was pruned")
	}
}
