package visualizer

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestBarsHeights(t *testing.T) {
	const w, h = 320.0, 200.0

	zeros := make([]byte, 16)
	for i, r := range Bars(zeros, w, h).Rects() {
		if r.H != 0 {
			t.Fatalf("bar %d height = %v, want 0", i, r.H)
		}
	}

	full := make([]byte, 16)
	for i := range full {
		full[i] = 255
	}
	rects := Bars(full, w, h).Rects()
	if len(rects) != 16 {
		t.Fatalf("bars = %d, want 16", len(rects))
	}
	for i, r := range rects {
		if math.Abs(r.H-0.8*h) > eps {
			t.Fatalf("bar %d height = %v, want %v", i, r.H, 0.8*h)
		}
		if math.Abs(r.Y+r.H-h) > eps {
			t.Fatalf("bar %d does not sit on the bottom edge: %+v", i, r)
		}
	}
}

func TestBarsPartitionWidth(t *testing.T) {
	rects := Bars([]byte{10, 20, 30, 40}, 100, 50).Rects()
	for i, r := range rects {
		if math.Abs(r.X-float64(i)*25) > eps {
			t.Fatalf("bar %d x = %v, want %v", i, r.X, float64(i)*25)
		}
		if math.Abs(r.W-24) > eps {
			t.Fatalf("bar %d width = %v, want 24", i, r.W)
		}
	}

	// Columns narrower than 3px get no gap.
	narrow := Bars(make([]byte, 100), 200, 50).Rects()
	if narrow[0].W != 2 {
		t.Fatalf("narrow bar width = %v, want 2", narrow[0].W)
	}
}

func TestBarsGradient(t *testing.T) {
	f := Bars([]byte{255}, 10, 100)
	var fill *Command
	for i := range f.Commands {
		if f.Commands[i].Op == OpFillRect {
			fill = &f.Commands[i]
		}
	}
	if fill == nil || fill.Fill.Gradient == nil {
		t.Fatal("expected a gradient-filled bar")
	}
	g := fill.Fill.Gradient
	if len(g.Stops) != 3 {
		t.Fatalf("stops = %d, want 3", len(g.Stops))
	}
	if got := g.At(Point{X: 0, Y: 100}); got != rgba(147, 51, 234, 0.8) {
		t.Fatalf("base colour = %+v", got)
	}
	if got := g.At(Point{X: 0, Y: 20}); got != rgba(16, 185, 129, 0.4) {
		t.Fatalf("top colour = %+v", got)
	}
	mid := g.At(Point{X: 0, Y: 60})
	if mid.R != 59 || mid.G != 130 || mid.B != 246 || math.Abs(mid.A-0.6) > eps {
		t.Fatalf("mid colour = %+v", mid)
	}
}

func TestEmptyBuffersRenderClearedFrame(t *testing.T) {
	for _, m := range []Mode{ModeBars, ModeWaveform} {
		f := RendererFor(m)(nil, 100, 100)
		if len(f.Commands) != 1 || f.Commands[0].Op != OpClear {
			t.Fatalf("%s: commands = %v, want a single clear", m, f.Commands)
		}
	}
}

func TestRadialEmptyBufferDrawsZeroLengthSpokes(t *testing.T) {
	paths := Radial(nil, 200, 100).Paths()
	if len(paths) != RadialSegments {
		t.Fatalf("segments = %d, want %d", len(paths), RadialSegments)
	}
	for i, p := range paths {
		if p[0] != p[1] {
			t.Fatalf("spoke %d = %v, want zero length", i, p)
		}
	}
}

func TestWaveformMapping(t *testing.T) {
	const w, h = 40.0, 100.0
	paths := Waveform([]byte{0, 128, 255, 64}, w, h).Paths()
	if len(paths) != 1 {
		t.Fatalf("paths = %d, want 1", len(paths))
	}
	want := []Point{
		{X: 0, Y: 0},
		{X: 10, Y: 50},
		{X: 20, Y: 255.0 / 128 * 50},
		{X: 30, Y: 25},
	}
	for i, p := range paths[0] {
		if math.Abs(p.X-want[i].X) > eps || math.Abs(p.Y-want[i].Y) > eps {
			t.Fatalf("point %d = %+v, want %+v", i, p, want[i])
		}
	}
}

func TestWaveformStyle(t *testing.T) {
	f := Waveform([]byte{128, 128}, 10, 10)
	c := f.Commands[len(f.Commands)-1]
	if c.Op != OpStrokePath || c.LineWidth != 3 || c.Stroke != waveColor {
		t.Fatalf("stroke = %+v", c)
	}
}

func TestRadialAlwaysSixtyFourSegments(t *testing.T) {
	for _, n := range []int{1, 10, 63, 64, 128, 1024} {
		samples := make([]byte, n)
		for i := range samples {
			samples[i] = 255
		}
		paths := Radial(samples, 200, 100).Paths()
		if len(paths) != RadialSegments {
			t.Fatalf("len %d: segments = %d, want %d", n, len(paths), RadialSegments)
		}
	}
}

func TestRadialGeometry(t *testing.T) {
	const w, h = 200.0, 100.0
	samples := make([]byte, 10)
	samples[0] = 255
	paths := Radial(samples, w, h).Paths()

	radius := 25.0
	first := paths[0]
	if math.Abs(first[0].X-(100+radius)) > eps || math.Abs(first[0].Y-50) > eps {
		t.Fatalf("segment 0 start = %+v", first[0])
	}
	if math.Abs(first[1].X-(100+2*radius)) > eps {
		t.Fatalf("segment 0 end = %+v", first[1])
	}

	// Padded segments have zero length.
	for i := 10; i < RadialSegments; i++ {
		p := paths[i]
		if math.Hypot(p[1].X-p[0].X, p[1].Y-p[0].Y) > eps {
			t.Fatalf("padded segment %d has length", i)
		}
	}
}

func TestRadialHueSweep(t *testing.T) {
	f := Radial(make([]byte, 64), 100, 100)
	var colours []RGBA
	for _, c := range f.Commands {
		if c.Op == OpStrokePath {
			colours = append(colours, c.Stroke)
		}
	}
	if colours[0] != hsla(0, 0.7, 0.6, 0.8) {
		t.Fatalf("segment 0 colour = %+v", colours[0])
	}
	if colours[32] != hsla(180, 0.7, 0.6, 0.8) {
		t.Fatalf("segment 32 colour = %+v", colours[32])
	}
	if colours[0] == colours[16] {
		t.Fatal("expected hue to change around the circle")
	}
}

func TestIdleGrid(t *testing.T) {
	paths := Idle(100, 40).Paths()
	if len(paths) != 5 {
		t.Fatalf("grid lines = %d, want 5", len(paths))
	}
	for i, p := range paths {
		if p[0].X != float64(i*20) || p[0].Y != 0 || p[1].Y != 40 {
			t.Fatalf("line %d = %+v", i, p)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"bars":     ModeBars,
		"Wave":     ModeWaveform,
		"waveform": ModeWaveform,
		"circular": ModeRadial,
		" radial ": ModeRadial,
	}
	for in, want := range tests {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("sparkles"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if ModeRadial.Next() != ModeBars {
		t.Fatal("expected mode cycling to wrap")
	}
}
