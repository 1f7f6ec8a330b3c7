package visualizer

import (
	"testing"
	"time"
)

func TestFrameQueueRunsInOrder(t *testing.T) {
	q := NewFrameQueue()
	var got []int
	q.RequestFrame(func() { got = append(got, 1) })
	id := q.RequestFrame(func() { got = append(got, 2) })
	q.RequestFrame(func() { got = append(got, 3) })
	q.CancelFrame(id)

	if ran := q.RunFrame(); ran != 2 {
		t.Fatalf("RunFrame() = %d, want 2", ran)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("order = %v, want [1 3]", got)
	}
	if q.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", q.Pending())
	}
}

func TestFrameQueueDefersNestedRequests(t *testing.T) {
	q := NewFrameQueue()
	runs := 0
	var cb func()
	cb = func() {
		runs++
		q.RequestFrame(cb)
	}
	q.RequestFrame(cb)

	q.RunFrame()
	if runs != 1 {
		t.Fatalf("runs = %d, want 1", runs)
	}
	q.RunFrame()
	if runs != 2 {
		t.Fatalf("runs = %d, want 2", runs)
	}
}

func TestTimerSchedulerCancel(t *testing.T) {
	s := NewTimerScheduler(100)
	fired := make(chan struct{}, 2)

	id := s.RequestFrame(func() { fired <- struct{}{} })
	s.CancelFrame(id)
	s.RequestFrame(func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer callback did not fire")
	}
	select {
	case <-fired:
		t.Fatal("cancelled callback fired")
	case <-time.After(50 * time.Millisecond):
	}
}
