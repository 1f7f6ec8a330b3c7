package audiograph

import (
	"math"
	"sync/atomic"
)

// Gain scales the signal by a live coefficient in [0,1]. The coefficient
// is read by the render goroutine on every block, so changes apply
// immediately.
type Gain struct {
	bits atomic.Uint64
}

func newGain() *Gain {
	g := &Gain{}
	g.set(1)
	return g
}

// Value returns the current coefficient.
func (g *Gain) Value() float64 {
	return math.Float64frombits(g.bits.Load())
}

func (g *Gain) set(v float64) {
	g.bits.Store(math.Float64bits(clampUnit(v)))
}

func (g *Gain) process(buf []float32) {
	k := float32(g.Value())
	if k == 1 {
		return
	}
	for i := range buf {
		buf[i] *= k
	}
}

// clampUnit clamps v to [0,1]; NaN maps to 0.
func clampUnit(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
