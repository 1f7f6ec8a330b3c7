package audiograph

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/window"
)

const (
	DefaultFFTSize     = 256
	DefaultSmoothing   = 0.8
	DefaultMinDecibels = -100.0
	DefaultMaxDecibels = -30.0

	minFFTSize = 32
	maxFFTSize = 32768
)

// ValidFFTSize reports whether n is a power of two in [32, 32768].
func ValidFFTSize(n int) bool {
	return n >= minFFTSize && n <= maxFFTSize && n&(n-1) == 0
}

// Analyser keeps the most recent FFTSize mono samples passing through the
// graph and derives byte-scaled frequency and time-domain views from them,
// using the same mapping as a browser AnalyserNode: Blackman window, |X|/N,
// exponential smoothing over successive calls, then decibels mapped
// linearly from [minDecibels, maxDecibels] onto [0, 255].
type Analyser struct {
	fftSize   int
	smoothing float64
	minDB     float64
	maxDB     float64

	mu       sync.Mutex
	history  []float32 // ring of mono samples
	w        int       // next write position
	window   []float64
	plan     *algofft.Plan[complex128]
	in       []complex128
	out      []complex128
	smoothed []float64
}

func newAnalyser(fftSize int, smoothing float64) (*Analyser, error) {
	if !ValidFFTSize(fftSize) {
		return nil, fmt.Errorf("fft size %d is not a power of two in [%d, %d]", fftSize, minFFTSize, maxFFTSize)
	}
	if smoothing < 0 || smoothing >= 1 || math.IsNaN(smoothing) {
		return nil, fmt.Errorf("smoothing %v outside [0, 1)", smoothing)
	}

	win, err := window.Blackman(fftSize, window.WithPeriodic())
	if err != nil {
		return nil, fmt.Errorf("analyser window: %w", err)
	}
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("analyser fft plan: %w", err)
	}

	return &Analyser{
		fftSize:   fftSize,
		smoothing: smoothing,
		minDB:     DefaultMinDecibels,
		maxDB:     DefaultMaxDecibels,
		history:   make([]float32, fftSize),
		window:    win,
		plan:      plan,
		in:        make([]complex128, fftSize),
		out:       make([]complex128, fftSize),
		smoothed:  make([]float64, fftSize/2),
	}, nil
}

// FFTSize is the transform size; time-domain buffers have this length.
func (a *Analyser) FFTSize() int { return a.fftSize }

// FrequencyBinCount is half the transform size.
func (a *Analyser) FrequencyBinCount() int { return a.fftSize / 2 }

// Smoothing returns the smoothing time constant.
func (a *Analyser) Smoothing() float64 { return a.smoothing }

// write appends interleaved frames as a mono mix, overwriting the oldest
// samples once the ring is full.
func (a *Analyser) write(buf []float32, channels int) {
	if channels < 1 {
		channels = 1
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	scale := 1 / float32(channels)
	for i := 0; i+channels <= len(buf); i += channels {
		var sum float32
		for ch := range channels {
			sum += buf[i+ch]
		}
		a.history[a.w] = sum * scale
		a.w = (a.w + 1) % a.fftSize
	}
}

// at returns the i-th sample of the ring in chronological order.
func (a *Analyser) at(i int) float32 {
	return a.history[(a.w+i)%a.fftSize]
}

// ByteFrequencyData fills dst with up to FrequencyBinCount magnitudes.
// Each call advances the smoothing state.
func (a *Analyser) ByteFrequencyData(dst []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.fftSize {
		a.in[i] = complex(float64(a.at(i))*a.window[i], 0)
	}
	if err := a.plan.Forward(a.out, a.in); err != nil {
		clear(dst)
		return
	}

	n := float64(a.fftSize)
	tau := a.smoothing
	for k := range a.smoothed {
		mag := cmplx.Abs(a.out[k]) / n
		v := tau*a.smoothed[k] + (1-tau)*mag
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		a.smoothed[k] = v
	}

	scale := 255 / (a.maxDB - a.minDB)
	for k := 0; k < len(dst) && k < len(a.smoothed); k++ {
		m := a.smoothed[k]
		if m <= 0 {
			dst[k] = 0
			continue
		}
		db := 20 * math.Log10(m)
		dst[k] = clampByte(math.Floor(scale * (db - a.minDB)))
	}
}

// ByteTimeDomainData fills dst with up to FFTSize samples encoded as
// 128*(1+x); silence reads as 128.
func (a *Analyser) ByteTimeDomainData(dst []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := 0; i < len(dst) && i < a.fftSize; i++ {
		dst[i] = clampByte(math.Floor(128 * (1 + float64(a.at(i)))))
	}
}

func clampByte(v float64) byte {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	default:
		return byte(v)
	}
}
