package audiograph

import (
	"encoding/binary"
	"io"
	"math"
	"sync"
)

// stubHandle yields a fixed waveform, one value per frame, copied to every
// channel.
type stubHandle struct {
	mu       sync.Mutex
	rate     int
	channels int
	wave     func(frame int) float32
	frame    int
	reads    int
	eofAfter int // frames; 0 means endless
}

func newConstHandle(v float32) *stubHandle {
	return &stubHandle{rate: DefaultSampleRate, channels: 2, wave: func(int) float32 { return v }}
}

func newSineHandle(bin, fftSize int) *stubHandle {
	return &stubHandle{
		rate:     DefaultSampleRate,
		channels: 2,
		wave: func(frame int) float32 {
			return float32(math.Sin(2 * math.Pi * float64(bin) * float64(frame) / float64(fftSize)))
		},
	}
}

func (h *stubHandle) ReadSamples(buf []float32) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reads++

	n := 0
	for n+h.channels <= len(buf) {
		if h.eofAfter > 0 && h.frame >= h.eofAfter {
			return n, io.EOF
		}
		v := h.wave(h.frame)
		for ch := 0; ch < h.channels; ch++ {
			buf[n+ch] = v
		}
		n += h.channels
		h.frame++
	}
	return n, nil
}

func (h *stubHandle) SampleRate() int { return h.rate }
func (h *stubHandle) Channels() int   { return h.channels }

func (h *stubHandle) readCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reads
}

func decodeS16(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	return out
}
