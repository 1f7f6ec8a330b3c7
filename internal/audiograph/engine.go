package audiograph

import (
	"context"
	"sync"
)

// Engine bundles the graph provider with the binder and sampler that
// front it, so the player deals with one object. The graph itself is
// still created lazily, on the first Init or Bind.
type Engine struct {
	provider *Provider
	sampler  *Sampler

	mu     sync.Mutex
	binder *Binder
	volume float64
}

// NewEngine returns an Engine over host. No audio is touched until Init.
func NewEngine(host Host, opts ...Option) *Engine {
	p := NewProvider(host, opts...)
	return &Engine{
		provider: p,
		sampler:  NewSampler(p),
		volume:   1,
	}
}

// IsSupported reports whether the host can provide an audio engine.
func (e *Engine) IsSupported() bool { return e.provider.IsSupported() }

// IsInitialized reports whether the graph exists.
func (e *Engine) IsInitialized() bool { return e.provider.IsInitialized() }

// Init builds the graph if needed and applies the pending volume.
func (e *Engine) Init() (*Graph, error) {
	g, err := e.provider.GetOrCreate()
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.binder == nil {
		e.binder = NewBinder(g)
		g.SetVolume(e.volume)
	}
	return g, nil
}

// SetVolume records v and applies it to the graph if one exists.
func (e *Engine) SetVolume(v float64) {
	v = clampUnit(v)

	e.mu.Lock()
	e.volume = v
	e.mu.Unlock()

	if g := e.provider.Graph(); g != nil {
		g.SetVolume(v)
	}
}

// Volume returns the last volume set, clamped to [0,1].
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Bind initializes the graph if necessary and makes h its input.
func (e *Engine) Bind(h MediaHandle) (*SourceNode, error) {
	if _, err := e.Init(); err != nil {
		return nil, err
	}
	return e.binderRef().Bind(h)
}

// Unbind releases the current binding, if any.
func (e *Engine) Unbind() {
	if b := e.binderRef(); b != nil {
		b.Unbind()
	}
}

// Bound returns the bound handle, or nil.
func (e *Engine) Bound() MediaHandle {
	if b := e.binderRef(); b != nil {
		return b.Bound()
	}
	return nil
}

func (e *Engine) binderRef() *Binder {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.binder
}

// Resume resumes a suspended engine. Without a graph it does nothing.
func (e *Engine) Resume(ctx context.Context) error {
	g := e.provider.Graph()
	if g == nil {
		return nil
	}
	return g.Resume(ctx)
}

// SampleRate is the rate media must be decoded to. Before Init it is the
// configured rate.
func (e *Engine) SampleRate() int {
	if g := e.provider.Graph(); g != nil {
		return g.SampleRate()
	}
	return e.provider.opts.sampleRate
}

// Sampler returns the frame sampler.
func (e *Engine) Sampler() *Sampler { return e.sampler }

// Available reports whether an analyser can be sampled.
func (e *Engine) Available() bool { return e.sampler.Available() }

// SampleFrequency is shorthand for Sampler().SampleFrequency().
func (e *Engine) SampleFrequency() []byte { return e.sampler.SampleFrequency() }

// SampleTimeDomain is shorthand for Sampler().SampleTimeDomain().
func (e *Engine) SampleTimeDomain() []byte { return e.sampler.SampleTimeDomain() }
