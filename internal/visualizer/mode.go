package visualizer

import (
	"fmt"
	"strings"
)

// Mode selects the renderer.
type Mode int

const (
	ModeBars Mode = iota
	ModeWaveform
	ModeRadial
)

var modeNames = [...]string{
	ModeBars:     "bars",
	ModeWaveform: "waveform",
	ModeRadial:   "radial",
}

// Modes returns every mode in cycling order.
func Modes() []Mode {
	return []Mode{ModeBars, ModeWaveform, ModeRadial}
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Next returns the following mode, wrapping around.
func (m Mode) Next() Mode {
	return Mode((int(m) + 1) % len(modeNames))
}

// TimeDomain reports whether the mode draws time-domain samples rather
// than frequency magnitudes.
func (m Mode) TimeDomain() bool {
	return m == ModeWaveform
}

// ParseMode accepts a mode name. "wave" and "circular" are aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bars", "bar":
		return ModeBars, nil
	case "waveform", "wave":
		return ModeWaveform, nil
	case "radial", "circular":
		return ModeRadial, nil
	}
	return ModeBars, fmt.Errorf("unknown render mode %q", s)
}

// Renderer maps one sample buffer and canvas size to a frame.
type Renderer func(samples []byte, width, height float64) Frame

// RendererFor returns the renderer for m; unknown modes draw bars.
func RendererFor(m Mode) Renderer {
	switch m {
	case ModeWaveform:
		return Waveform
	case ModeRadial:
		return Radial
	default:
		return Bars
	}
}
