package visualizer

import (
	"image/color"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// dotThreshold is the minimum coverage alpha for a dot to be raised.
const dotThreshold = 0.03

// BrailleSurface paints frames onto a grid of Braille cells. Each cell is
// a 2x4 dot grid, so a canvas of CanvasSize() maps one canvas pixel to one
// dot. Cells are coloured with the mean colour of their raised dots.
type BrailleSurface struct {
	mu     sync.Mutex
	cols   int
	rows   int
	raster *RasterSurface
	output string
}

// NewBrailleSurface returns a surface of cols x rows terminal cells.
func NewBrailleSurface(cols, rows int) *BrailleSurface {
	b := &BrailleSurface{}
	b.Resize(cols, rows)
	return b
}

// Resize changes the cell grid and clears the output.
func (b *BrailleSurface) Resize(cols, rows int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cols, b.rows = max(cols, 1), max(rows, 1)
	b.raster = NewRasterSurface(b.cols*2, b.rows*4, 1)
	b.raster.SetBackground(color.NRGBA{})
	b.output = ""
}

// CanvasSize is the canvas geometry frames should be rendered at.
func (b *BrailleSurface) CanvasSize() (width, height float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return float64(b.cols * 2), float64(b.rows * 4)
}

func (b *BrailleSurface) Paint(f Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.raster.Paint(f)
	b.output = b.encode()
}

// String returns the last painted frame as rows of Braille runes.
func (b *BrailleSurface) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.output
}

func (b *BrailleSurface) encode() string {
	img := b.raster.Image()
	cells := newCellPainter()

	var sb strings.Builder
	for row := range b.rows {
		if row > 0 {
			cells.reset(&sb)
			sb.WriteByte('\n')
		}
		for col := range b.cols {
			var pattern uint
			var r, g, bl, a, lit float64
			for dx := range 2 {
				for dy := range 4 {
					c := img.RGBAAt(col*2+dx, row*4+dy)
					alpha := float64(c.A) / 255
					if alpha < dotThreshold {
						continue
					}
					pattern |= 1 << brailleBits[dx][dy]
					// Un-premultiply before averaging.
					r += float64(c.R) / alpha
					g += float64(c.G) / alpha
					bl += float64(c.B) / alpha
					a += alpha
					lit++
				}
			}
			if pattern == 0 {
				cells.reset(&sb)
				sb.WriteRune(rune(0x2800))
				continue
			}
			mean := colorful.Color{R: r / lit / 255, G: g / lit / 255, B: bl / lit / 255}
			// Faint strokes are dimmed towards black since cells have no alpha.
			cells.set(&sb, colorful.Color{}.BlendRgb(mean, clamp01(0.4+0.6*(a/lit))))
			sb.WriteRune(rune(0x2800 + pattern))
		}
	}
	cells.reset(&sb)
	return sb.String()
}
