// Package audiograph owns the shared audio processing graph:
// source -> gain -> analyser -> destination.
//
// The graph is created lazily by a Provider and lives for the rest of the
// process. Gain, analyser and destination are wired exactly once, when the
// graph is built; afterwards only the source input changes.
package audiograph

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ik5/audpbx/utils"
)

const (
	DefaultSampleRate = 44100
	graphChannels     = 2
)

type options struct {
	sampleRate int
	fftSize    int
	smoothing  float64
	logger     *slog.Logger
}

// Option configures a Provider.
type Option func(*options)

// WithSampleRate sets the engine sample rate.
func WithSampleRate(rate int) Option {
	return func(o *options) { o.sampleRate = rate }
}

// WithFFTSize sets the analyser transform size.
func WithFFTSize(n int) Option {
	return func(o *options) { o.fftSize = n }
}

// WithSmoothing sets the analyser smoothing time constant.
func WithSmoothing(s float64) Option {
	return func(o *options) { o.smoothing = s }
}

// WithLogger sets the logger used for non-fatal failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{
		sampleRate: DefaultSampleRate,
		fftSize:    DefaultFFTSize,
		smoothing:  DefaultSmoothing,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Provider is the lazy factory for the single Graph of a process.
// Callers share the returned *Graph and never build their own.
type Provider struct {
	host Host
	opts options

	mu          sync.Mutex
	graph       *Graph
	unsupported bool
}

// NewProvider returns a Provider backed by host. A nil host yields a
// provider whose GetOrCreate always fails with ErrUnsupportedEnvironment.
func NewProvider(host Host, opts ...Option) *Provider {
	return &Provider{host: host, opts: buildOptions(opts)}
}

// IsSupported reports whether the environment has an audio engine. It
// turns false for good once the host reports ErrUnsupportedEnvironment.
func (p *Provider) IsSupported() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.host != nil && !p.unsupported
}

// IsInitialized reports whether the graph has been built.
func (p *Provider) IsInitialized() bool {
	return p.Graph() != nil
}

// Graph returns the graph if it exists, without creating it.
func (p *Provider) Graph() *Graph {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.graph
}

// GetOrCreate returns the shared graph, building it on first use.
// A failed construction is logged and may be retried by a later call.
func (p *Provider) GetOrCreate() (*Graph, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.graph != nil {
		return p.graph, nil
	}
	if p.host == nil || p.unsupported {
		return nil, ErrUnsupportedEnvironment
	}

	g, err := newGraph(p.host, p.opts)
	if err != nil {
		p.opts.logger.Error("audio graph construction failed", "err", err)
		if errors.Is(err, ErrUnsupportedEnvironment) {
			p.unsupported = true
		}
		return nil, err
	}
	p.graph = g
	p.opts.logger.Info("audio graph created",
		"sample_rate", g.ctx.SampleRate(),
		"fft_size", g.analyser.FFTSize(),
		"smoothing", g.analyser.Smoothing())
	return g, nil
}

// Graph is the shared processing graph. All exported methods are safe for
// concurrent use; the destination renders on the platform's goroutine.
type Graph struct {
	ctx      Context
	gain     *Gain
	analyser *Analyser
	channels int
	log      *slog.Logger

	mu      sync.Mutex
	input   *SourceNode
	nodes   map[MediaHandle]*SourceNode
	scratch []float32
}

func newGraph(host Host, o options) (*Graph, error) {
	analyser, err := newAnalyser(o.fftSize, o.smoothing)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceCreation, err)
	}

	ctx, err := host.NewContext(o.sampleRate, graphChannels)
	if errors.Is(err, ErrUnsupportedEnvironment) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: engine context: %w", ErrResourceCreation, err)
	}

	g := &Graph{
		ctx:      ctx,
		gain:     newGain(),
		analyser: analyser,
		channels: graphChannels,
		log:      o.logger,
		nodes:    make(map[MediaHandle]*SourceNode),
	}

	// gain -> analyser -> destination, once.
	if err := ctx.Connect(destination{g}); err != nil {
		return nil, fmt.Errorf("%w: connecting destination: %w", ErrResourceCreation, err)
	}
	return g, nil
}

// SampleRate is the engine rate every bound source must produce.
func (g *Graph) SampleRate() int { return g.ctx.SampleRate() }

// Channels is the interleaved channel count of the graph.
func (g *Graph) Channels() int { return g.channels }

// State reports the engine run state.
func (g *Graph) State() State { return g.ctx.State() }

// Gain returns the gain node.
func (g *Graph) Gain() *Gain { return g.gain }

// Analyser returns the analysis node.
func (g *Graph) Analyser() *Analyser { return g.analyser }

// SetVolume clamps v to [0,1] and applies it to the live gain coefficient.
func (g *Graph) SetVolume(v float64) {
	g.gain.set(v)
}

// Resume asks a suspended engine to run again. It returns nil when the
// engine is not suspended. Failures and ctx expiry are logged and wrapped
// in ErrResume; they never leave the graph in a broken state.
func (g *Graph) Resume(ctx context.Context) error {
	if g.ctx.State() != StateSuspended {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- g.ctx.Resume() }()

	select {
	case err := <-done:
		if err != nil {
			g.log.Warn("audio engine resume rejected", "err", err)
			return fmt.Errorf("%w: %w", ErrResume, err)
		}
		g.log.Debug("audio engine resumed")
		return nil
	case <-ctx.Done():
		g.log.Warn("audio engine resume abandoned", "err", ctx.Err())
		return fmt.Errorf("%w: %w", ErrResume, ctx.Err())
	}
}

// sourceFor returns the node owned by h, creating it on first use.
// A handle owns at most one node for as long as it is registered.
func (g *Graph) sourceFor(h MediaHandle) *SourceNode {
	g.mu.Lock()
	defer g.mu.Unlock()

	if n, ok := g.nodes[h]; ok {
		return n
	}
	n := &SourceNode{handle: h, graph: g}
	g.nodes[h] = n
	return n
}

// connect makes n the graph input and clears its last read error. Only
// one input may be connected.
func (g *Graph) connect(n *SourceNode) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.input == n {
		return nil
	}
	if g.input != nil {
		return ErrBindingConflict
	}
	g.input = n
	n.connected = true
	n.readErr = nil
	return nil
}

// disconnect detaches n if it is the input. Once it returns, the render
// goroutine no longer reads from n's handle.
func (g *Graph) disconnect(n *SourceNode) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.input == n {
		g.input = nil
	}
	n.connected = false
}

// release forgets n so its handle may be bound afresh later.
func (g *Graph) release(n *SourceNode) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.nodes[n.handle] == n {
		delete(g.nodes, n.handle)
	}
}

// render produces one block of interleaved output: input, gain, analyser.
func (g *Graph) render(out []float32) {
	clear(out)

	g.mu.Lock()
	if g.input != nil {
		g.input.pull(out)
	}
	g.mu.Unlock()

	g.gain.process(out)
	g.analyser.write(out, g.channels)
}

// destination adapts the graph to the platform's pull-based io.Reader.
type destination struct {
	g *Graph
}

func (d destination) Read(p []byte) (int, error) {
	const bytesPerSample = 2
	samples := len(p) / bytesPerSample
	samples -= samples % d.g.channels
	if samples == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.ErrShortBuffer
	}

	g := d.g
	g.mu.Lock()
	if cap(g.scratch) < samples {
		g.scratch = make([]float32, samples)
	}
	buf := g.scratch[:samples]
	g.mu.Unlock()

	g.render(buf)

	for i, s := range buf {
		binary.LittleEndian.PutUint16(p[i*bytesPerSample:], uint16(utils.Float32ToInt16(s)))
	}
	return samples * bytesPerSample, nil
}
