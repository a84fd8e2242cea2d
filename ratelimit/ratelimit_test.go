package ratelimit

import (
	"testing"
	"time"
)

func TestSetCapacityValidation(t *testing.T) {
	l := New()
	if err := l.SetCapacity("chat", 0, time.Minute); err != ErrInvalidCapacity {
		t.Errorf("zero capacity: err = %v, want ErrInvalidCapacity", err)
	}
	if err := l.SetCapacity("chat", 1, 0); err != ErrInvalidWindow {
		t.Errorf("zero window: err = %v, want ErrInvalidWindow", err)
	}
	if err := l.SetCapacity("chat", 1, time.Minute); err != nil {
		t.Errorf("valid config: err = %v", err)
	}
}

func TestTryAcquireUnknownResource(t *testing.T) {
	l := New()
	for i := 0; i < 100; i++ {
		if !l.TryAcquire("anything") {
			t.Fatal("unconfigured resource should be unlimited")
		}
	}
}

func TestTryAcquireExhaustsWindow(t *testing.T) {
	l := New()
	if err := l.SetCapacity("chat", 2, time.Minute); err != nil {
		t.Fatalf("SetCapacity: %v", err)
	}

	if !l.TryAcquire("chat") || !l.TryAcquire("chat") {
		t.Fatal("first two acquisitions should succeed")
	}
	if l.TryAcquire("chat") {
		t.Error("third acquisition should fail")
	}

	remaining, ok := l.Remaining("chat")
	if !ok || remaining != 0 {
		t.Errorf("Remaining = (%d, %v), want (0, true)", remaining, ok)
	}
}

func TestWindowRefill(t *testing.T) {
	l := New()
	current := time.Now()
	l.now = func() time.Time { return current }

	if err := l.SetCapacity("chat", 1, time.Minute); err != nil {
		t.Fatalf("SetCapacity: %v", err)
	}
	if !l.TryAcquire("chat") {
		t.Fatal("first acquisition should succeed")
	}
	if l.TryAcquire("chat") {
		t.Fatal("bucket should be empty")
	}

	current = current.Add(time.Minute + time.Second)
	if !l.TryAcquire("chat") {
		t.Error("bucket should refill after the window")
	}
}

func TestResourcesIndependent(t *testing.T) {
	l := New()
	if err := l.SetCapacity("chat", 1, time.Minute); err != nil {
		t.Fatalf("SetCapacity: %v", err)
	}
	if err := l.SetCapacity("import", 1, time.Minute); err != nil {
		t.Fatalf("SetCapacity: %v", err)
	}

	if !l.TryAcquire("chat") {
		t.Fatal("chat acquisition should succeed")
	}
	if !l.TryAcquire("import") {
		t.Error("import should not share chat's bucket")
	}
}
