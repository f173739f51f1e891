package http

import (
	"net/http/httptest"
	"testing"
)

func TestRateLimiterAllowsWithinWindow(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < rateLimitRequests; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d unexpectedly denied", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request over the limit was allowed")
	}
	// Other clients are unaffected.
	if !rl.allow("10.0.0.2") {
		t.Error("independent client was denied")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.1:5000"
	if got := clientIP(r); got != "192.0.2.1" {
		t.Errorf("clientIP = %q", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 192.0.2.1")
	if got := clientIP(r); got != "203.0.113.9" {
		t.Errorf("clientIP with X-Forwarded-For = %q", got)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  Food \x00\x1b "); got != "Food" {
		t.Errorf("sanitizeInput = %q", got)
	}
	if got := sanitizeInput("multi\nline\tok"); got != "multi\nline\tok" {
		t.Errorf("sanitizeInput stripped allowed whitespace: %q", got)
	}
}
