package media

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeWAV(t *testing.T, path string, rate, channels int, data []int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
}

func rampWAV(t *testing.T, rate, channels, frames int) string {
	t.Helper()
	data := make([]int, frames*channels)
	for i := range frames {
		for c := range channels {
			data[i*channels+c] = i % 30000
		}
	}
	path := filepath.Join(t.TempDir(), "ramp.wav")
	writeWAV(t, path, rate, channels, data)
	return path
}

func drainEvents(e *Element) []EventType {
	var out []EventType
	for {
		select {
		case ev := <-e.Events():
			out = append(out, ev.Type)
		default:
			return out
		}
	}
}

func hasEvent(events []EventType, want EventType) bool {
	for _, ev := range events {
		if ev == want {
			return true
		}
	}
	return false
}

func TestOpenWAV(t *testing.T) {
	e, err := Open(rampWAV(t, 44100, 2, 44100), 44100)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer e.Close()

	if got := e.Duration(); got != time.Second {
		t.Fatalf("Duration() = %v, want 1s", got)
	}
	if e.CurrentTime() != 0 || !e.Paused() {
		t.Fatal("expected a paused element at position 0")
	}
	if e.SampleRate() != 44100 || e.Channels() != 2 {
		t.Fatalf("layout = %d Hz x %d", e.SampleRate(), e.Channels())
	}
	if events := drainEvents(e); len(events) == 0 || events[0] != EventLoadedMetadata {
		t.Fatalf("events = %v, want loadedmetadata first", events)
	}
}

func TestOpenRejectsUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(filepath.Join(dir, "song.aac"), 44100); err == nil {
		t.Fatal("expected error for unsupported extension")
	}

	bogus := filepath.Join(dir, "bogus.wav")
	if err := os.WriteFile(bogus, []byte("not a wav file at all"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := Open(bogus, 44100); err == nil {
		t.Fatal("expected error for invalid wav")
	}
}

func TestPausedElementIsSilent(t *testing.T) {
	e, err := Open(rampWAV(t, 44100, 2, 1000), 44100)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer e.Close()

	buf := []float32{1, 1, 1, 1}
	n, err := e.ReadSamples(buf)
	if err != nil || n != 4 {
		t.Fatalf("ReadSamples() = %d, %v", n, err)
	}
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("sample %d = %v, want silence", i, v)
		}
	}
	if e.CurrentTime() != 0 {
		t.Fatal("paused element advanced")
	}
}

func TestMonoIsUpmixedAndScaled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	writeWAV(t, path, 8000, 1, []int{16384, -16384, 16384, -16384})

	e, err := Open(path, 8000)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer e.Close()
	e.SetVolume(0.5)
	e.Play()

	buf := make([]float32, 4)
	if _, err := e.ReadSamples(buf); err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	want := []float32{0.25, 0.25, -0.25, -0.25}
	for i := range want {
		if math.Abs(float64(buf[i]-want[i])) > 1e-6 {
			t.Fatalf("buf = %v, want %v", buf, want)
		}
	}
}

func TestElementEnds(t *testing.T) {
	e, err := Open(rampWAV(t, 8000, 2, 4), 8000)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer e.Close()
	e.Play()

	buf := make([]float32, 16)
	for i := range buf {
		buf[i] = 9
	}
	if _, err := e.ReadSamples(buf); err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	for i := 8; i < 16; i++ {
		if buf[i] != 0 {
			t.Fatalf("tail sample %d = %v, want 0", i, buf[i])
		}
	}

	select {
	case <-e.Ended():
	default:
		t.Fatal("expected Ended to be closed")
	}
	if !e.IsEnded() || !e.Paused() {
		t.Fatal("expected element to be ended and paused")
	}
	if !hasEvent(drainEvents(e), EventEnded) {
		t.Fatal("expected an ended event")
	}

	// Further reads stay silent and do not panic on the closed channel.
	if _, err := e.ReadSamples(buf); err != nil {
		t.Fatalf("ReadSamples() after end error = %v", err)
	}
}

func TestSetCurrentTime(t *testing.T) {
	e, err := Open(rampWAV(t, 8000, 1, 8000), 8000)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer e.Close()

	if err := e.SetCurrentTime(500 * time.Millisecond); err != nil {
		t.Fatalf("SetCurrentTime() error = %v", err)
	}
	if got := e.CurrentTime(); got != 500*time.Millisecond {
		t.Fatalf("CurrentTime() = %v, want 500ms", got)
	}

	e.Play()
	buf := make([]float32, 2)
	if _, err := e.ReadSamples(buf); err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if want := float32(4000) / 32768; math.Abs(float64(buf[0]-want)) > 1e-6 {
		t.Fatalf("sample after seek = %v, want %v", buf[0], want)
	}

	if err := e.SetCurrentTime(time.Hour); err != nil {
		t.Fatalf("SetCurrentTime() past end error = %v", err)
	}
	if got := e.CurrentTime(); got != time.Second {
		t.Fatalf("CurrentTime() = %v, want clamp to 1s", got)
	}
	if err := e.SetCurrentTime(-time.Second); err != nil {
		t.Fatalf("SetCurrentTime() negative error = %v", err)
	}
	if e.CurrentTime() != 0 {
		t.Fatal("expected negative seek to clamp to 0")
	}
}

func TestTimeUpdateEvents(t *testing.T) {
	e, err := Open(rampWAV(t, 8000, 2, 8000), 8000)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer e.Close()
	drainEvents(e)

	e.Play()
	buf := make([]float32, 2*1000)
	e.ReadSamples(buf)
	if hasEvent(drainEvents(e), EventTimeUpdate) {
		t.Fatal("timeupdate raised before 250ms of audio")
	}
	e.ReadSamples(buf)
	if !hasEvent(drainEvents(e), EventTimeUpdate) {
		t.Fatal("expected timeupdate after 250ms of audio")
	}
}

func TestResampledElement(t *testing.T) {
	e, err := Open(rampWAV(t, 22050, 2, 22050), 44100)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer e.Close()

	if got := e.Duration(); got != time.Second {
		t.Fatalf("Duration() = %v, want 1s", got)
	}
	e.Play()
	buf := make([]float32, 2*4410)
	if _, err := e.ReadSamples(buf); err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if got := e.CurrentTime(); got != 100*time.Millisecond {
		t.Fatalf("CurrentTime() = %v, want 100ms", got)
	}
	if buf[len(buf)-2] == 0 {
		t.Fatal("expected resampled audio, got silence")
	}
}

func TestPlayPauseEvents(t *testing.T) {
	e, err := Open(rampWAV(t, 8000, 2, 100), 8000)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer e.Close()
	drainEvents(e)

	e.Play()
	e.Play()
	e.Pause()
	got := drainEvents(e)
	if len(got) != 2 || got[0] != EventPlay || got[1] != EventPause {
		t.Fatalf("events = %v, want [play pause]", got)
	}
}

func TestProbe(t *testing.T) {
	d, err := Probe(rampWAV(t, 8000, 2, 4000))
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if d != 500*time.Millisecond {
		t.Fatalf("Probe() = %v, want 500ms", d)
	}
}

func TestReadMetadataFallsBackToFileName(t *testing.T) {
	path := rampWAV(t, 8000, 1, 10)
	if got := ReadMetadata(path); got.Title != "ramp" {
		t.Fatalf("ReadMetadata().Title = %q, want %q", got.Title, "ramp")
	}
}
