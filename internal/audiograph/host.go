package audiograph

import "io"

// State is the run state of an engine context.
type State int

const (
	StateRunning State = iota
	StateSuspended
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	default:
		return "closed"
	}
}

// Host is the platform audio capability. A nil Host means the environment
// cannot produce sound.
type Host interface {
	NewContext(sampleRate, channels int) (Context, error)
}

// Context is an engine handle created by a Host.
type Context interface {
	SampleRate() int
	State() State
	// Resume asks the platform to leave the suspended state.
	Resume() error
	// Connect attaches the destination: from now on the platform pulls
	// interleaved signed 16-bit little-endian frames from r. It is called
	// exactly once per context.
	Connect(r io.Reader) error
}
