package persist

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() {
		fired.Add(1)
	})

	for i := 0; i < 8; i++ {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(120 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Fatalf("expected one firing after the burst, got %d", got)
	}
}

func TestDebouncer_ForceRunsImmediately(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(time.Hour, func() {
		fired.Add(1)
	})

	d.Trigger()
	d.Force()

	if got := fired.Load(); got != 1 {
		t.Fatalf("expected synchronous firing, got %d", got)
	}
	if d.Pending() {
		t.Fatal("force should cancel the pending timer")
	}
}

func TestDebouncer_StopCancels(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() {
		fired.Add(1)
	})

	d.Trigger()
	d.Stop()

	time.Sleep(80 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Fatalf("expected no firing after stop, got %d", got)
	}
}
