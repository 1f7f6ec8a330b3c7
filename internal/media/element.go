package media

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ik5/audpbx/audio"
)

const (
	outputChannels     = 2
	timeUpdateInterval = 250 * time.Millisecond
	eventBuffer        = 32
)

// EventType names an element notification.
type EventType int

const (
	EventLoadedMetadata EventType = iota
	EventTimeUpdate
	EventPlay
	EventPause
	EventEnded
)

func (t EventType) String() string {
	switch t {
	case EventLoadedMetadata:
		return "loadedmetadata"
	case EventTimeUpdate:
		return "timeupdate"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event is a notification from an Element. Time is the playback position
// when it was raised.
type Event struct {
	Type EventType
	Time time.Duration
}

// Element is a playable local audio file. It produces interleaved stereo
// float32 at the output rate and is pulled by the audio graph.
//
// Notifications are delivered on Events without blocking the reader; when
// the buffer is full the event is dropped. Ended is closed once, when the
// stream runs out.
type Element struct {
	path    string
	outRate int

	mu       sync.Mutex
	src      pcmSource
	stream   audio.Source
	paused   bool
	ended    bool
	closed   bool
	pos      int64 // output frames produced
	total    int64 // output frames, 0 when unknown
	volume   float64
	lastTick int64
	tmp      []float32

	events  chan Event
	endedCh chan struct{}
	endOnce sync.Once
}

// Open decodes path for playback at outputRate. The element starts
// paused.
func Open(path string, outputRate int) (*Element, error) {
	if outputRate <= 0 {
		return nil, fmt.Errorf("invalid output rate %d", outputRate)
	}
	src, err := openSource(path)
	if err != nil {
		return nil, err
	}
	if src.Channels() < 1 || src.SampleRate() <= 0 {
		src.Close()
		return nil, fmt.Errorf("invalid stream layout: %d channels at %d Hz", src.Channels(), src.SampleRate())
	}

	e := &Element{
		path:    path,
		outRate: outputRate,
		src:     src,
		paused:  true,
		volume:  1,
		events:  make(chan Event, eventBuffer),
		endedCh: make(chan struct{}),
	}
	if n := src.Frames(); n > 0 {
		e.total = n * int64(outputRate) / int64(src.SampleRate())
	}
	e.resetStream()
	e.emit(EventLoadedMetadata)
	return e, nil
}

// resetStream rebuilds the resampler after the source moved.
func (e *Element) resetStream() {
	if e.src.SampleRate() == e.outRate {
		e.stream = e.src
		return
	}
	e.stream = audio.NewResampler(e.src, e.outRate)
}

// Path returns the file the element plays.
func (e *Element) Path() string { return e.path }

// SampleRate is the output rate.
func (e *Element) SampleRate() int { return e.outRate }

// Channels is always 2.
func (e *Element) Channels() int { return outputChannels }

// Events returns the notification channel.
func (e *Element) Events() <-chan Event { return e.events }

// Ended is closed when playback reaches the end of the stream.
func (e *Element) Ended() <-chan struct{} { return e.endedCh }

// Play starts or continues playback. It is a no-op once ended.
func (e *Element) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.paused || e.ended || e.closed {
		return
	}
	e.paused = false
	e.emit(EventPlay)
}

// Pause suspends playback; the element then yields silence.
func (e *Element) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.paused || e.closed {
		return
	}
	e.paused = true
	e.emit(EventPause)
}

// Paused reports whether playback is suspended.
func (e *Element) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// IsEnded reports whether the stream has run out.
func (e *Element) IsEnded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ended
}

// CurrentTime is the playback position.
func (e *Element) CurrentTime() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.framesToDuration(e.pos)
}

// Duration is the stream length, or 0 when the format does not say.
func (e *Element) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.framesToDuration(e.total)
}

func (e *Element) framesToDuration(frames int64) time.Duration {
	return time.Duration(frames) * time.Second / time.Duration(e.outRate)
}

// SetCurrentTime seeks to d, clamped to the stream bounds.
func (e *Element) SetCurrentTime(d time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return errors.New("element closed")
	}

	if d < 0 {
		d = 0
	}
	out := int64(d) * int64(e.outRate) / int64(time.Second)
	if e.total > 0 && out > e.total {
		out = e.total
	}
	srcFrame := out * int64(e.src.SampleRate()) / int64(e.outRate)
	if err := e.src.SeekFrame(srcFrame); err != nil {
		return fmt.Errorf("seeking %s: %w", e.path, err)
	}
	e.resetStream()
	e.pos = out
	e.lastTick = out
	e.emit(EventTimeUpdate)
	return nil
}

// Volume is the element-level gain in [0,1].
func (e *Element) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// SetVolume sets the element-level gain, clamped to [0,1].
func (e *Element) SetVolume(v float64) {
	if !(v > 0) {
		v = 0
	} else if v > 1 {
		v = 1
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = v
}

// ReadSamples fills buf with interleaved stereo samples. While paused,
// ended or closed it yields silence.
func (e *Element) ReadSamples(buf []float32) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	frames := len(buf) / outputChannels
	if e.paused || e.ended || e.closed || frames == 0 {
		clear(buf)
		return len(buf), nil
	}

	ch := e.stream.Channels()
	need := frames * ch
	if cap(e.tmp) < need {
		e.tmp = make([]float32, need)
	}
	tmp := e.tmp[:need]

	got := 0
	var readErr error
	for got < need {
		n, err := e.stream.ReadSamples(tmp[got:])
		got += n
		if err != nil {
			readErr = err
			break
		}
		if n == 0 {
			break
		}
	}
	got -= got % ch
	produced := got / ch

	vol := float32(e.volume)
	for f := range produced {
		l := tmp[f*ch]
		r := l
		if ch > 1 {
			r = tmp[f*ch+1]
		}
		buf[f*2] = l * vol
		buf[f*2+1] = r * vol
	}
	clear(buf[produced*2:])

	e.pos += int64(produced)
	if e.pos-e.lastTick >= int64(timeUpdateInterval)*int64(e.outRate)/int64(time.Second) {
		e.lastTick = e.pos
		e.emit(EventTimeUpdate)
	}

	if readErr != nil || produced < frames {
		e.finish()
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return len(buf), fmt.Errorf("decoding %s: %w", e.path, readErr)
		}
	}
	return len(buf), nil
}

// finish marks the stream ended. Called with mu held.
func (e *Element) finish() {
	if e.ended {
		return
	}
	e.ended = true
	e.paused = true
	if e.total == 0 || e.pos > e.total {
		e.total = e.pos
	}
	e.emit(EventEnded)
	e.endOnce.Do(func() { close(e.endedCh) })
}

// emit queues an event without blocking. Called with mu held.
func (e *Element) emit(t EventType) {
	select {
	case e.events <- Event{Type: t, Time: e.framesToDuration(e.pos)}:
	default:
	}
}

// Close releases the decoder. The element yields silence afterwards.
func (e *Element) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.src.Close()
}
