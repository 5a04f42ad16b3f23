package security

import (
	"testing"
	"time"
)

func TestRateLimiterEnforcesLimit(t *testing.T) {
	limiter := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("c-1") {
			t.Fatalf("request %d denied below limit", i+1)
		}
	}
	if limiter.Allow("c-1") {
		t.Error("request above limit allowed")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewRateLimiter(1, time.Hour)

	if !limiter.Allow("c-1") {
		t.Error("first customer denied")
	}
	if !limiter.Allow("c-2") {
		t.Error("second customer denied after first used its quota")
	}
	if limiter.Allow("c-1") {
		t.Error("first customer allowed above limit")
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	limiter := NewRateLimiter(2, time.Hour)

	now := time.Now()
	limiter.now = func() time.Time { return now }

	limiter.Allow("c-1")
	limiter.Allow("c-1")
	if limiter.Allow("c-1") {
		t.Error("allowed above limit")
	}

	// After the window passes, the quota frees up.
	limiter.now = func() time.Time { return now.Add(time.Hour + time.Minute) }
	if !limiter.Allow("c-1") {
		t.Error("denied after window expired")
	}
}
