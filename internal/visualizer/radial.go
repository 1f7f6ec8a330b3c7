package visualizer

import "math"

const (
	RadialSegments  = 64
	radialLineWidth = 3
)

// Radial draws RadialSegments spokes around a base circle of radius
// min(width,height)/4. Spoke i extends outward by (s_i/255)*radius and is
// coloured by hue i/64*360. Only the first 64 samples are used; a shorter
// buffer, an empty one included, is padded with zeros, so every spoke is
// always emitted.
func Radial(samples []byte, width, height float64) Frame {
	f := newFrame(width, height)
	if width <= 0 || height <= 0 {
		return f
	}

	cx, cy := width/2, height/2
	radius := math.Min(width, height) / 4
	step := 2 * math.Pi / RadialSegments

	for i := range RadialSegments {
		var s byte
		if i < len(samples) {
			s = samples[i]
		}
		length := float64(s) / 255 * radius
		sin, cos := math.Sincos(step * float64(i))
		f.strokePath([]Point{
			{X: cx + cos*radius, Y: cy + sin*radius},
			{X: cx + cos*(radius+length), Y: cy + sin*(radius+length)},
		}, hsla(float64(i)/RadialSegments*360, 0.7, 0.6, 0.8), radialLineWidth)
	}
	return f
}
