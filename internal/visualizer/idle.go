package visualizer

const idleGridSpacing = 20

var idleGridColor = rgba(255, 255, 255, 0.1)

// Idle draws the placeholder shown while nothing plays: 1px vertical
// lines every 20px from the left edge.
func Idle(width, height float64) Frame {
	f := newFrame(width, height)
	if width <= 0 || height <= 0 {
		return f
	}
	for x := 0.0; x < width; x += idleGridSpacing {
		f.strokePath([]Point{{X: x, Y: 0}, {X: x, Y: height}}, idleGridColor, 1)
	}
	return f
}
