package visualizer

const waveLineWidth = 3

var waveColor = rgba(59, 130, 246, 0.8)

// Waveform connects the time-domain samples into one polyline. A sample of
// 128 sits on the horizontal midline.
func Waveform(samples []byte, width, height float64) Frame {
	f := newFrame(width, height)
	n := len(samples)
	if n == 0 || width <= 0 || height <= 0 {
		return f
	}

	slice := width / float64(n)
	path := make([]Point, n)
	for i, s := range samples {
		path[i] = Point{
			X: float64(i) * slice,
			Y: (float64(s)/128-1)*height/2 + height/2,
		}
	}
	f.strokePath(path, waveColor, waveLineWidth)
	return f
}
