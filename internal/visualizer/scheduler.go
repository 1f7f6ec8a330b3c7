package visualizer

import (
	"sync"
	"time"
)

// FrameID identifies a requested frame callback. Zero is never issued.
type FrameID uint64

// Scheduler runs a callback on the next display refresh.
type Scheduler interface {
	RequestFrame(cb func()) FrameID
	// CancelFrame drops a pending callback. Unknown or already-run ids
	// are ignored.
	CancelFrame(id FrameID)
}

// FrameQueue is a cooperative Scheduler: callbacks run only when the
// host calls RunFrame, once per refresh.
type FrameQueue struct {
	mu      sync.Mutex
	next    FrameID
	order   []FrameID
	pending map[FrameID]func()
}

// NewFrameQueue returns an empty queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{pending: make(map[FrameID]func())}
}

func (q *FrameQueue) RequestFrame(cb func()) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.pending[q.next] = cb
	q.order = append(q.order, q.next)
	return q.next
}

func (q *FrameQueue) CancelFrame(id FrameID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, id)
}

// RunFrame runs the callbacks requested before the call, in request
// order, and returns how many ran. Callbacks requested while running
// wait for the next RunFrame.
func (q *FrameQueue) RunFrame() int {
	q.mu.Lock()
	order := q.order
	q.order = nil
	cbs := make([]func(), 0, len(order))
	for _, id := range order {
		if cb, ok := q.pending[id]; ok {
			cbs = append(cbs, cb)
			delete(q.pending, id)
		}
	}
	q.mu.Unlock()

	for _, cb := range cbs {
		cb()
	}
	return len(cbs)
}

// Pending reports how many callbacks are waiting.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// TimerScheduler fires callbacks on their own goroutine after a fixed
// frame interval. It drives the loop when no UI owns the refresh.
type TimerScheduler struct {
	interval time.Duration

	mu     sync.Mutex
	next   FrameID
	timers map[FrameID]*time.Timer
}

// NewTimerScheduler returns a scheduler ticking fps times per second.
func NewTimerScheduler(fps int) *TimerScheduler {
	if fps < 1 {
		fps = 1
	}
	return &TimerScheduler{
		interval: time.Second / time.Duration(fps),
		timers:   make(map[FrameID]*time.Timer),
	}
}

func (s *TimerScheduler) RequestFrame(cb func()) FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	id := s.next
	s.timers[id] = time.AfterFunc(s.interval, func() {
		s.mu.Lock()
		_, live := s.timers[id]
		delete(s.timers, id)
		s.mu.Unlock()
		if live {
			cb()
		}
	})
	return id
}

func (s *TimerScheduler) CancelFrame(id FrameID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// Pending reports how many timers have not fired or been cancelled.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
