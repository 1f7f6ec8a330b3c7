package audiograph

import (
	"errors"
	"io"
	"sync"
)

// ManualHost is a headless Host whose destination only advances when Pull
// is called. It stands in for a sound card in tests and offline rendering.
type ManualHost struct {
	mu  sync.Mutex
	ctx *ManualContext

	// Created counts successful NewContext calls.
	Created int
	// Fail, when set, is returned from NewContext.
	Fail error
	// StartSuspended makes new contexts start in StateSuspended.
	StartSuspended bool
	// ResumeErr, when set, is returned from Resume.
	ResumeErr error
}

func (h *ManualHost) NewContext(sampleRate, channels int) (Context, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Fail != nil {
		return nil, h.Fail
	}
	h.Created++
	h.ctx = &ManualContext{
		sampleRate: sampleRate,
		channels:   channels,
		suspended:  h.StartSuspended,
		resumeErr:  h.ResumeErr,
	}
	return h.ctx, nil
}

// Context returns the most recently created context, or nil.
func (h *ManualHost) Context() *ManualContext {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ctx
}

// ManualContext is the Context produced by ManualHost.
type ManualContext struct {
	sampleRate int
	channels   int

	mu        sync.Mutex
	dest      io.Reader
	connects  int
	suspended bool
	resumeErr error
}

func (c *ManualContext) SampleRate() int { return c.sampleRate }

func (c *ManualContext) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.suspended {
		return StateSuspended
	}
	return StateRunning
}

func (c *ManualContext) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resumeErr != nil {
		return c.resumeErr
	}
	c.suspended = false
	return nil
}

func (c *ManualContext) Connect(r io.Reader) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connects++
	if c.dest != nil {
		return errors.New("destination already connected")
	}
	c.dest = r
	return nil
}

// Connects reports how many times the destination was wired.
func (c *ManualContext) Connects() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connects
}

// Pull renders frames sample frames through the graph and returns the
// interleaved 16-bit output bytes. A suspended context renders nothing.
func (c *ManualContext) Pull(frames int) []byte {
	c.mu.Lock()
	dest, suspended := c.dest, c.suspended
	c.mu.Unlock()
	if dest == nil || suspended || frames <= 0 {
		return nil
	}
	out := make([]byte, frames*c.channels*2)
	n, _ := io.ReadFull(dest, out)
	return out[:n]
}
