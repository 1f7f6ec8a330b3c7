package visualizer

const barHeightScale = 0.8

var barStops = []Stop{
	{Offset: 0, Color: rgba(147, 51, 234, 0.8)},
	{Offset: 0.5, Color: rgba(59, 130, 246, 0.6)},
	{Offset: 1, Color: rgba(16, 185, 129, 0.4)},
}

// Bars draws one column per sample across the full width. Each bar rises
// from the bottom edge to (s/255)*height*0.8 and is filled with a gradient
// running from its base to its top. Columns of 3px or more keep a 1px gap.
func Bars(samples []byte, width, height float64) Frame {
	f := newFrame(width, height)
	n := len(samples)
	if n == 0 || width <= 0 || height <= 0 {
		return f
	}

	col := width / float64(n)
	barW := col
	if col >= 3 {
		barW = col - 1
	}

	for i, s := range samples {
		h := float64(s) / 255 * height * barHeightScale
		x := float64(i) * col
		f.fillRect(Rect{X: x, Y: height - h, W: barW, H: h}, Paint{
			Gradient: &LinearGradient{
				From:  Point{X: 0, Y: height},
				To:    Point{X: 0, Y: height - h},
				Stops: barStops,
			},
		})
	}
	return f
}
