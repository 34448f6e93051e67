package service

import (
	"testing"
	"time"
)

// TestLoginLimiterLockout tests locking after repeated failures
func TestLoginLimiterLockout(t *testing.T) {
	ll := NewLoginLimiter(3, time.Minute, time.Hour)

	if locked, _ := ll.IsLocked("alice@example.com"); locked {
		t.Fatal("fresh account should not be locked")
	}

	ll.RecordFailure("alice@example.com")
	ll.RecordFailure("alice@example.com")
	if locked, _ := ll.IsLocked("alice@example.com"); locked {
		t.Fatal("account should not lock before reaching the limit")
	}
	if remaining := ll.GetRemainingAttempts("alice@example.com"); remaining != 1 {
		t.Errorf("remaining attempts = %d, want 1", remaining)
	}

	locked, wait := ll.RecordFailure("alice@example.com")
	if !locked {
		t.Fatal("third failure should lock the account")
	}
	if wait <= 0 {
		t.Errorf("lock duration = %v, want positive", wait)
	}
	if stillLocked, _ := ll.IsLocked("alice@example.com"); !stillLocked {
		t.Error("account should stay locked")
	}

	// other accounts are unaffected
	if locked, _ := ll.IsLocked("bob@example.com"); locked {
		t.Error("unrelated account should not be locked")
	}
}

// TestLoginLimiterReset tests that success clears the failure counter
func TestLoginLimiterReset(t *testing.T) {
	ll := NewLoginLimiter(3, time.Minute, time.Hour)

	ll.RecordFailure("alice@example.com")
	ll.RecordFailure("alice@example.com")
	ll.RecordSuccess("alice@example.com")

	if remaining := ll.GetRemainingAttempts("alice@example.com"); remaining != 3 {
		t.Errorf("remaining attempts after success = %d, want 3", remaining)
	}
}
