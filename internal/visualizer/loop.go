package visualizer

import (
	"log/slog"
	"sync"
)

// FrameSource supplies analyser data once per frame.
type FrameSource interface {
	Available() bool
	SampleFrequency() []byte
	SampleTimeDomain() []byte
}

// Surface receives painted frames.
type Surface interface {
	Paint(Frame)
}

// LoopState is the render loop's lifecycle state.
type LoopState int

const (
	LoopIdle LoopState = iota
	LoopRunning
	LoopClosed
)

func (s LoopState) String() string {
	switch s {
	case LoopIdle:
		return "idle"
	case LoopRunning:
		return "running"
	default:
		return "closed"
	}
}

// LoopConfig holds the initial loop settings.
type LoopConfig struct {
	Width, Height float64
	Mode          Mode
	Logger        *slog.Logger
}

// Loop repaints the surface once per scheduled frame while audio plays,
// and leaves a single idle frame behind when it stops.
type Loop struct {
	src     FrameSource
	surface Surface
	sched   Scheduler
	log     *slog.Logger

	mu         sync.Mutex
	state      LoopState
	playing    bool
	mode       Mode
	width      float64
	height     float64
	gen        uint64
	pending    FrameID
	hasPending bool
}

// NewLoop returns an idle loop. Nothing is painted until the loop starts
// or is resized.
func NewLoop(src FrameSource, surface Surface, sched Scheduler, cfg LoopConfig) *Loop {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		src:     src,
		surface: surface,
		sched:   sched,
		log:     log,
		mode:    cfg.Mode,
		width:   cfg.Width,
		height:  cfg.Height,
	}
}

// State returns the current lifecycle state.
func (l *Loop) State() LoopState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Mode returns the active render mode.
func (l *Loop) Mode() Mode {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mode
}

// HasPending reports whether a tick is scheduled.
func (l *Loop) HasPending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasPending
}

// SetPlaying records the playback state and starts or stops the loop.
func (l *Loop) SetPlaying(playing bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.playing = playing
	l.reconcile()
}

// Refresh re-evaluates whether the loop should run, for callers that know
// analyser availability changed.
func (l *Loop) Refresh() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reconcile()
}

// SetMode switches the renderer from the next tick on.
func (l *Loop) SetMode(m Mode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mode = m
}

// Resize changes the canvas geometry. An idle loop repaints its idle frame.
func (l *Loop) Resize(width, height float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.width, l.height = width, height
	if l.state == LoopIdle {
		l.surface.Paint(Idle(l.width, l.height))
	}
}

// Close cancels any pending tick. Once it returns nothing is painted
// again and the surface may be released.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == LoopClosed {
		return
	}
	l.cancelPending()
	l.gen++
	l.state = LoopClosed
	l.log.Debug("render loop closed")
}

func (l *Loop) reconcile() {
	if l.state == LoopClosed {
		return
	}
	want := l.playing && l.src.Available()
	switch {
	case want && l.state == LoopIdle:
		l.state = LoopRunning
		l.gen++
		l.log.Debug("render loop running", "mode", l.mode.String())
		l.draw()
		l.schedule()
	case !want && l.state == LoopRunning:
		l.stop()
	}
}

// stop enters Idle from Running and paints the idle frame once.
func (l *Loop) stop() {
	l.cancelPending()
	l.gen++
	l.state = LoopIdle
	l.surface.Paint(Idle(l.width, l.height))
	l.log.Debug("render loop idle")
}

func (l *Loop) schedule() {
	gen := l.gen
	l.pending = l.sched.RequestFrame(func() { l.tick(gen) })
	l.hasPending = true
}

func (l *Loop) cancelPending() {
	if l.hasPending {
		l.sched.CancelFrame(l.pending)
		l.hasPending = false
	}
}

func (l *Loop) tick(gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != LoopRunning || gen != l.gen {
		return
	}
	l.hasPending = false
	if !l.src.Available() {
		l.stop()
		return
	}
	l.draw()
	l.schedule()
}

func (l *Loop) draw() {
	var samples []byte
	if l.mode.TimeDomain() {
		samples = l.src.SampleTimeDomain()
	} else {
		samples = l.src.SampleFrequency()
	}
	l.surface.Paint(RendererFor(l.mode)(samples, l.width, l.height))
}
