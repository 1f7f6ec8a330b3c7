package audiograph

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
)

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

// oto permits a single context per process.
func initOto(sampleRate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// OtoHost plays the graph through the system audio device. oto fails only
// when no driver or device can be opened, and its context cannot be
// created twice, so a failure is reported as ErrUnsupportedEnvironment.
type OtoHost struct{}

func (OtoHost) NewContext(sampleRate, channels int) (Context, error) {
	ctx, err := initOto(sampleRate, channels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedEnvironment, err)
	}
	return &otoContext{ctx: ctx, sampleRate: sampleRate}, nil
}

type otoContext struct {
	ctx        *oto.Context
	sampleRate int

	mu     sync.Mutex
	player *oto.Player
}

func (c *otoContext) SampleRate() int { return c.sampleRate }

// State reports closed once the device has failed; oto never enters a
// suspended state on its own.
func (c *otoContext) State() State {
	if c.ctx.Err() != nil {
		return StateClosed
	}
	return StateRunning
}

func (c *otoContext) Resume() error {
	return c.ctx.Resume()
}

func (c *otoContext) Connect(r io.Reader) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.player != nil {
		return errors.New("destination already connected")
	}
	c.player = c.ctx.NewPlayer(r)
	c.player.Play()
	return nil
}
