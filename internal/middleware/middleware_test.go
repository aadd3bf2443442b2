package middleware

import "testing"

func TestConnectionLimiter(t *testing.T) {
	cl := NewConnectionLimiter(2)

	if !cl.Acquire() || !cl.Acquire() {
		t.Fatalf("expected two acquires to succeed")
	}
	if cl.Acquire() {
		t.Fatalf("expected third acquire to fail at limit")
	}
	cl.Release()
	if !cl.Acquire() {
		t.Fatalf("expected acquire to succeed after release")
	}
}

func TestConnectionLimiter_ReleaseWithoutAcquire(t *testing.T) {
	cl := NewConnectionLimiter(1)
	cl.Release()
	if !cl.Acquire() {
		t.Fatalf("expected acquire to succeed")
	}
}
