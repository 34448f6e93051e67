package middleware

import (
	"testing"
	"time"
)

// TestRateLimiterAllow tests the sliding window limit
func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("request over the limit should be rejected")
	}

	// other keys have their own window
	if !rl.Allow("5.6.7.8") {
		t.Error("a different key should not be affected")
	}
}

// TestRateLimiterWindowExpiry tests that old requests fall out of the window
func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond)

	rl.Allow("k")
	rl.Allow("k")
	if rl.Allow("k") {
		t.Fatal("third request inside the window should be rejected")
	}

	time.Sleep(60 * time.Millisecond)
	if !rl.Allow("k") {
		t.Error("request after the window expired should be allowed")
	}
}
