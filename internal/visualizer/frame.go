package visualizer

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBA is a straight-alpha colour. A is an opacity in [0,1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// rgba builds a colour from CSS-style components.
func rgba(r, g, b uint8, a float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: a}
}

// hsla builds a colour from a hue in degrees and saturation, lightness
// and alpha in [0,1].
func hsla(h, s, l, a float64) RGBA {
	c := colorful.Hsl(h, s, l).Clamped()
	r, g, b := c.RGB255()
	return RGBA{R: r, G: g, B: b, A: a}
}

func (c RGBA) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Point is a canvas coordinate in pixels.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle; H may be zero.
type Rect struct {
	X, Y, W, H float64
}

// Stop is one colour stop of a gradient; Offset is in [0,1].
type Stop struct {
	Offset float64
	Color  RGBA
}

// LinearGradient interpolates its stops along the line From -> To.
type LinearGradient struct {
	From, To Point
	Stops    []Stop
}

// At returns the gradient colour at point p.
func (g *LinearGradient) At(p Point) RGBA {
	if len(g.Stops) == 0 {
		return RGBA{}
	}
	dx, dy := g.To.X-g.From.X, g.To.Y-g.From.Y
	den := dx*dx + dy*dy
	t := 0.0
	if den > 0 {
		t = ((p.X-g.From.X)*dx + (p.Y-g.From.Y)*dy) / den
	}
	return g.sample(t)
}

func (g *LinearGradient) sample(t float64) RGBA {
	first, last := g.Stops[0], g.Stops[len(g.Stops)-1]
	if t <= first.Offset {
		return first.Color
	}
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(g.Stops); i++ {
		a, b := g.Stops[i-1], g.Stops[i]
		if t > b.Offset {
			continue
		}
		span := b.Offset - a.Offset
		if span <= 0 {
			return b.Color
		}
		f := (t - a.Offset) / span
		c := a.Color.colorful().BlendRgb(b.Color.colorful(), f).Clamped()
		r, gg, bb := c.RGB255()
		return RGBA{R: r, G: gg, B: bb, A: a.Color.A + (b.Color.A-a.Color.A)*f}
	}
	return last.Color
}

// Paint is a fill style: a gradient when Gradient is set, else Solid.
type Paint struct {
	Solid    RGBA
	Gradient *LinearGradient
}

// At returns the paint colour at p.
func (p Paint) At(pt Point) RGBA {
	if p.Gradient != nil {
		return p.Gradient.At(pt)
	}
	return p.Solid
}

// Op identifies a draw command.
type Op int

const (
	OpClear Op = iota
	OpFillRect
	OpStrokePath
)

func (o Op) String() string {
	switch o {
	case OpClear:
		return "clear"
	case OpFillRect:
		return "fill-rect"
	case OpStrokePath:
		return "stroke-path"
	default:
		return "unknown"
	}
}

// Command is one draw instruction. Which fields apply depends on Op.
type Command struct {
	Op Op

	// OpFillRect
	Rect Rect
	Fill Paint

	// OpStrokePath
	Path      []Point
	Stroke    RGBA
	LineWidth float64
}

// Frame is the ordered list of commands that paints one canvas frame.
type Frame struct {
	Width, Height float64
	Commands      []Command
}

func newFrame(width, height float64) Frame {
	return Frame{
		Width:    width,
		Height:   height,
		Commands: []Command{{Op: OpClear}},
	}
}

func (f *Frame) fillRect(r Rect, p Paint) {
	f.Commands = append(f.Commands, Command{Op: OpFillRect, Rect: r, Fill: p})
}

func (f *Frame) strokePath(path []Point, c RGBA, width float64) {
	f.Commands = append(f.Commands, Command{Op: OpStrokePath, Path: path, Stroke: c, LineWidth: width})
}

// Rects returns the rectangles of all fill commands, in order.
func (f Frame) Rects() []Rect {
	var out []Rect
	for _, c := range f.Commands {
		if c.Op == OpFillRect {
			out = append(out, c.Rect)
		}
	}
	return out
}

// Paths returns the point lists of all stroke commands, in order.
func (f Frame) Paths() [][]Point {
	var out [][]Point
	for _, c := range f.Commands {
		if c.Op == OpStrokePath {
			out = append(out, c.Path)
		}
	}
	return out
}
