package audiograph

import "sync"

// MediaHandle is a playable stream the graph can pull from. Samples are
// interleaved float32 at the graph's rate and channel count. Handles are
// used as map keys and must be comparable; pointer types are expected.
type MediaHandle interface {
	// ReadSamples fills buf and returns the number of samples written.
	// A short read is padded with silence by the graph.
	ReadSamples(buf []float32) (int, error)
	SampleRate() int
	Channels() int
}

// SourceNode is the graph's connection to one MediaHandle.
type SourceNode struct {
	handle    MediaHandle
	graph     *Graph
	connected bool
	readErr   error
}

// Handle returns the media handle behind the node.
func (n *SourceNode) Handle() MediaHandle { return n.handle }

// Connected reports whether the node currently feeds the gain stage.
func (n *SourceNode) Connected() bool {
	n.graph.mu.Lock()
	defer n.graph.mu.Unlock()
	return n.connected
}

// pull reads one block from the handle into out. Called with graph.mu held.
func (n *SourceNode) pull(out []float32) {
	got, err := n.handle.ReadSamples(out)
	if got < 0 {
		got = 0
	}
	if got < len(out) {
		clear(out[got:])
	}
	if err != nil && n.readErr == nil {
		n.readErr = err
		n.graph.log.Debug("media source stopped producing", "err", err)
	}
}

// Binder attaches at most one MediaHandle to a Graph at a time.
type Binder struct {
	graph *Graph

	mu    sync.Mutex
	bound *SourceNode
}

// NewBinder returns a Binder for g.
func NewBinder(g *Graph) *Binder {
	return &Binder{graph: g}
}

// Bind makes h the graph input. Binding the bound handle again returns the
// existing node. Binding another handle disconnects and releases the
// current one first, so the graph holds a node only for the bound handle.
// Bind(nil) is a no-op.
func (b *Binder) Bind(h MediaHandle) (*SourceNode, error) {
	if h == nil {
		return nil, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bound != nil && b.bound.handle == h {
		return b.bound, nil
	}
	if b.bound != nil {
		b.graph.disconnect(b.bound)
		b.graph.release(b.bound)
		b.bound = nil
	}

	n := b.graph.sourceFor(h)
	if err := b.graph.connect(n); err != nil {
		return nil, err
	}
	b.bound = n
	if rate := h.SampleRate(); rate != b.graph.SampleRate() {
		b.graph.log.Warn("media rate differs from engine rate",
			"media_rate", rate, "engine_rate", b.graph.SampleRate())
	}
	return n, nil
}

// Unbind disconnects and releases the current binding. No-op when unbound.
func (b *Binder) Unbind() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bound == nil {
		return
	}
	b.graph.disconnect(b.bound)
	b.graph.release(b.bound)
	b.bound = nil
}

// Bound returns the bound handle, or nil.
func (b *Binder) Bound() MediaHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bound == nil {
		return nil
	}
	return b.bound.handle
}
