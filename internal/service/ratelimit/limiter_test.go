package ratelimit

import (
	"testing"
	"time"
)

func TestAllowConsumesBurst(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("a", 3, 1) {
			t.Fatalf("request %d should pass within burst", i)
		}
	}
	if l.Allow("a", 3, 1) {
		t.Fatal("request beyond burst should be denied")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 1) {
		t.Fatal("first key should pass")
	}
	if l.Allow("a", 1, 1) {
		t.Fatal("first key exhausted")
	}
	if !l.Allow("b", 1, 1) {
		t.Fatal("second key has its own bucket")
	}
}

func TestAllowRefills(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 1000) {
		t.Fatal("initial token")
	}
	if l.Allow("a", 1, 1000) {
		t.Fatal("bucket drained")
	}
	time.Sleep(5 * time.Millisecond)
	if !l.Allow("a", 1, 1000) {
		t.Fatal("bucket should refill at 1000 tokens/s")
	}
}
