package media

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audpbx/audio"
	"github.com/ik5/audpbx/formats/aiff"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// pcmSource is a decoded stream of interleaved float32 samples in [-1,1]
// that can be repositioned by frame.
type pcmSource interface {
	audio.Source
	// Frames is the stream length in frames, or 0 when unknown.
	Frames() int64
	SeekFrame(frame int64) error
}

// registry holds decoders for formats without a seekable reader of our own.
var registry = func() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("aiff", aiff.Decoder{})
	return r
}()

// openSource detects the format by extension and returns its decoder.
func openSource(path string) (pcmSource, error) {
	format := FormatOf(path)
	if format == "" {
		return nil, fmt.Errorf("unsupported format: %s", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var src pcmSource
	switch format {
	case FormatMP3:
		src, err = newMP3Source(f)
	case FormatWAV:
		src, err = newWAVSource(f)
	case FormatFLAC:
		src, err = newFLACSource(f)
	case FormatOgg:
		src, err = newOGGSource(f)
	case FormatAIFF:
		src, err = newRegistrySource(f, string(FormatAIFF))
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

func clampFrame(frame, total int64) int64 {
	if frame < 0 {
		return 0
	}
	if total > 0 && frame > total {
		return total
	}
	return frame
}

// --- MP3 ---

type mp3Source struct {
	file *os.File
	dec  *mp3.Decoder
	buf  []byte
}

func newMP3Source(f *os.File) (*mp3Source, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Source{file: f, dec: dec}, nil
}

// go-mp3 always decodes to 16-bit stereo.
func (s *mp3Source) SampleRate() int { return s.dec.SampleRate() }
func (s *mp3Source) Channels() int   { return 2 }
func (s *mp3Source) BufSize() int    { return 4096 }
func (s *mp3Source) Close() error    { return s.file.Close() }
func (s *mp3Source) Frames() int64   { return s.dec.Length() / 4 }

func (s *mp3Source) ReadSamples(dst []float32) (int, error) {
	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	n, err := io.ReadFull(s.dec, s.buf[:need])
	samples := n / 2
	for i := range samples {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(s.buf[i*2:]))) / 32768
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	return samples, err
}

func (s *mp3Source) SeekFrame(frame int64) error {
	frame = clampFrame(frame, s.Frames())
	_, err := s.dec.Seek(frame*4, io.SeekStart)
	return err
}

// --- WAV ---

const wavFormatFloat = 3

type wavSource struct {
	file       *os.File
	pcmStart   int64
	frames     int64
	sampleRate int
	channels   int
	bitDepth   int
	float      bool
	buf        []byte
}

func newWAVSource(f *os.File) (*wavSource, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	// FwdToPCM positions the file at the start of PCM data.
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	s := &wavSource{
		file:       f,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   int(dec.BitDepth),
		float:      dec.WavAudioFormat == wavFormatFloat,
	}
	switch {
	case s.channels < 1:
		return nil, fmt.Errorf("invalid WAV channel count %d", s.channels)
	case s.float && s.bitDepth != 32:
		return nil, fmt.Errorf("unsupported WAV float depth %d", s.bitDepth)
	case !s.float && s.bitDepth != 8 && s.bitDepth != 16 && s.bitDepth != 24 && s.bitDepth != 32:
		return nil, fmt.Errorf("unsupported WAV bit depth %d", s.bitDepth)
	}

	s.frames = dec.PCMLen() / int64(s.frameSize())
	start, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("getting PCM start position: %w", err)
	}
	s.pcmStart = start
	return s, nil
}

func (s *wavSource) frameSize() int  { return s.channels * s.bitDepth / 8 }
func (s *wavSource) SampleRate() int { return s.sampleRate }
func (s *wavSource) Channels() int   { return s.channels }
func (s *wavSource) BufSize() int    { return 4096 }
func (s *wavSource) Close() error    { return s.file.Close() }
func (s *wavSource) Frames() int64   { return s.frames }

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
	width := s.bitDepth / 8
	pos, err := s.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	remaining := s.pcmStart + s.frames*int64(s.frameSize()) - pos
	want := int64(len(dst) * width)
	if want > remaining {
		want = max(remaining, 0)
	}
	if want == 0 {
		return 0, io.EOF
	}
	if int64(cap(s.buf)) < want {
		s.buf = make([]byte, want)
	}
	n, err := io.ReadFull(s.file, s.buf[:want])
	samples := n / width
	for i := range samples {
		dst[i] = s.decode(s.buf[i*width:])
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	return samples, err
}

func (s *wavSource) decode(b []byte) float32 {
	if s.float {
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	}
	switch s.bitDepth {
	case 8:
		// 8-bit WAV is unsigned.
		return float32(int(b[0])-128) / 128
	case 16:
		return float32(int16(binary.LittleEndian.Uint16(b))) / 32768
	case 24:
		v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if v&0x800000 != 0 {
			v |= ^0xFFFFFF
		}
		return float32(v) / 8388608
	default:
		return float32(int32(binary.LittleEndian.Uint32(b))) / 2147483648
	}
}

func (s *wavSource) SeekFrame(frame int64) error {
	frame = clampFrame(frame, s.frames)
	_, err := s.file.Seek(s.pcmStart+frame*int64(s.frameSize()), io.SeekStart)
	return err
}

// --- FLAC ---

type flacSource struct {
	file    *os.File
	stream  *flac.Stream
	pending []float32
	scale   float32
}

func newFLACSource(f *os.File) (*flacSource, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	bps := int(stream.Info.BitsPerSample)
	if bps < 4 || bps > 32 {
		return nil, fmt.Errorf("unsupported FLAC bit depth %d", bps)
	}
	return &flacSource{
		file:   f,
		stream: stream,
		scale:  1 / float32(int64(1)<<(bps-1)),
	}, nil
}

func (s *flacSource) SampleRate() int { return int(s.stream.Info.SampleRate) }
func (s *flacSource) Channels() int   { return int(s.stream.Info.NChannels) }
func (s *flacSource) BufSize() int    { return 4096 }
func (s *flacSource) Close() error    { return s.file.Close() }
func (s *flacSource) Frames() int64   { return int64(s.stream.Info.NSamples) }

func (s *flacSource) ReadSamples(dst []float32) (int, error) {
	written := 0
	for written < len(dst) {
		if len(s.pending) == 0 {
			frame, err := s.stream.ParseNext()
			if err != nil {
				return written, err
			}
			ch := len(frame.Subframes)
			n := int(frame.Subframes[0].NSamples)
			s.pending = s.pending[:0]
			for i := range n {
				for c := range ch {
					s.pending = append(s.pending, float32(frame.Subframes[c].Samples[i])*s.scale)
				}
			}
		}
		n := copy(dst[written:], s.pending)
		s.pending = s.pending[n:]
		written += n
	}
	return written, nil
}

func (s *flacSource) SeekFrame(frame int64) error {
	frame = clampFrame(frame, s.Frames())
	if _, err := s.stream.Seek(uint64(frame)); err != nil {
		return err
	}
	s.pending = s.pending[:0]
	return nil
}

// --- Ogg Vorbis ---

type oggSource struct {
	file   *os.File
	reader *oggvorbis.Reader
}

func newOGGSource(f *os.File) (*oggSource, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	return &oggSource{file: f, reader: reader}, nil
}

func (s *oggSource) SampleRate() int { return s.reader.SampleRate() }
func (s *oggSource) Channels() int   { return s.reader.Channels() }
func (s *oggSource) BufSize() int    { return 4096 }
func (s *oggSource) Close() error    { return s.file.Close() }
func (s *oggSource) Frames() int64   { return s.reader.Length() }

func (s *oggSource) ReadSamples(dst []float32) (int, error) {
	return s.reader.Read(dst)
}

func (s *oggSource) SeekFrame(frame int64) error {
	s.reader.SetPosition(clampFrame(frame, s.Frames()))
	return nil
}

// --- registry formats ---

// registrySource adapts an audpbx decoder. Those sources only read
// forward, so seeking restarts the decode and discards frames.
type registrySource struct {
	file   *os.File
	format string
	audio.Source
	discard []float32
}

func newRegistrySource(f *os.File, format string) (*registrySource, error) {
	s := &registrySource{file: f, format: format}
	if err := s.restart(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *registrySource) restart() error {
	dec, ok := registry.Get(s.format)
	if !ok {
		return fmt.Errorf("no decoder registered for %s", s.format)
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	src, err := dec.Decode(s.file)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", s.format, err)
	}
	s.Source = src
	return nil
}

func (s *registrySource) Close() error  { return s.file.Close() }
func (s *registrySource) Frames() int64 { return 0 }

func (s *registrySource) SeekFrame(frame int64) error {
	if err := s.restart(); err != nil {
		return err
	}
	ch := s.Channels()
	remaining := clampFrame(frame, 0) * int64(ch)
	if s.discard == nil {
		s.discard = make([]float32, 4096*ch)
	}
	for remaining > 0 {
		chunk := s.discard
		if int64(len(chunk)) > remaining {
			chunk = chunk[:remaining]
		}
		n, err := s.ReadSamples(chunk)
		remaining -= int64(n)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if n == 0 {
			return nil
		}
	}
	return nil
}
