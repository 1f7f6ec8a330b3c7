package visualizer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// DefaultBackground is the panel colour behind exported frames.
var DefaultBackground = color.NRGBA{R: 17, G: 12, B: 38, A: 255}

// RasterSurface paints frames into an RGBA image. Canvas coordinates are
// multiplied by the scale factor, so one canvas pixel may cover several
// device pixels.
type RasterSurface struct {
	mu         sync.Mutex
	img        *image.RGBA
	scale      float64
	background color.NRGBA
	painted    int
}

// NewRasterSurface returns a surface of width x height device pixels.
// A scale of zero or less means 1.
func NewRasterSurface(width, height int, scale float64) *RasterSurface {
	if scale <= 0 {
		scale = 1
	}
	return &RasterSurface{
		img:        image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0))),
		scale:      scale,
		background: DefaultBackground,
	}
}

// SetBackground sets the colour OpClear fills with. A zero colour clears to
// transparent.
func (s *RasterSurface) SetBackground(c color.NRGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = c
}

// Resize reallocates the image. The contents are lost.
func (s *RasterSurface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
}

// Painted reports how many frames have been painted.
func (s *RasterSurface) Painted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.painted
}

// Paint executes the frame's commands in order.
func (s *RasterSurface) Paint(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.painted++
	for _, c := range f.Commands {
		switch c.Op {
		case OpClear:
			xdraw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.background), image.Point{}, xdraw.Src)
		case OpFillRect:
			s.fillRect(c.Rect, c.Fill)
		case OpStrokePath:
			s.stroke(c.Path, c.Stroke, c.LineWidth)
		}
	}
}

func (s *RasterSurface) fillRect(r Rect, p Paint) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	z := s.rasterizer()
	if z == nil {
		return
	}
	x0, y0 := s.device(Point{X: r.X, Y: r.Y})
	x1, y1 := s.device(Point{X: r.X + r.W, Y: r.Y + r.H})
	z.MoveTo(x0, y0)
	z.LineTo(x1, y0)
	z.LineTo(x1, y1)
	z.LineTo(x0, y1)
	z.ClosePath()
	z.Draw(s.img, s.img.Bounds(), s.source(p), image.Point{})
}

// stroke draws each segment of path as a quad of the given width. All
// quads share one winding, so overlaps at the joints do not darken.
func (s *RasterSurface) stroke(path []Point, c RGBA, width float64) {
	if len(path) < 2 || width <= 0 {
		return
	}
	z := s.rasterizer()
	if z == nil {
		return
	}
	half := width * s.scale / 2
	for i := 1; i < len(path); i++ {
		ax, ay := s.devicef(path[i-1])
		bx, by := s.devicef(path[i])
		dx, dy := bx-ax, by-ay
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half
		z.MoveTo(s.clamp(ax+nx, ay+ny))
		z.LineTo(s.clamp(bx+nx, by+ny))
		z.LineTo(s.clamp(bx-nx, by-ny))
		z.LineTo(s.clamp(ax-nx, ay-ny))
		z.ClosePath()
	}
	z.Draw(s.img, s.img.Bounds(), image.NewUniform(nrgba(c)), image.Point{})
}

func (s *RasterSurface) rasterizer() *vector.Rasterizer {
	b := s.img.Bounds()
	if b.Empty() {
		return nil
	}
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = xdraw.Over
	return z
}

func (s *RasterSurface) devicef(p Point) (float64, float64) {
	return p.X * s.scale, p.Y * s.scale
}

func (s *RasterSurface) device(p Point) (float32, float32) {
	return s.clamp(s.devicef(p))
}

func (s *RasterSurface) clamp(x, y float64) (float32, float32) {
	b := s.img.Bounds()
	x = math.Max(0, math.Min(x, float64(b.Dx())))
	y = math.Max(0, math.Min(y, float64(b.Dy())))
	return float32(x), float32(y)
}

func (s *RasterSurface) source(p Paint) image.Image {
	if p.Gradient == nil {
		return image.NewUniform(nrgba(p.Solid))
	}
	return &gradientImage{g: p.Gradient, scale: s.scale, bounds: s.img.Bounds()}
}

// Image returns a copy of the current pixels.
func (s *RasterSurface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// WritePNG encodes the current pixels, enlarged by factor when factor > 1.
func (s *RasterSurface) WritePNG(w io.Writer, factor int) error {
	var img image.Image = s.Image()
	if factor > 1 {
		b := img.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		img = dst
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func nrgba(c RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(clamp01(c.A) * 255))}
}

// gradientImage evaluates a gradient at each device pixel centre.
type gradientImage struct {
	g      *LinearGradient
	scale  float64
	bounds image.Rectangle
}

func (g *gradientImage) ColorModel() color.Model { return color.NRGBAModel }
func (g *gradientImage) Bounds() image.Rectangle { return g.bounds }

func (g *gradientImage) At(x, y int) color.Color {
	p := Point{X: (float64(x) + 0.5) / g.scale, Y: (float64(y) + 0.5) / g.scale}
	return nrgba(g.g.At(p))
}
