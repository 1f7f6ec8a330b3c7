package visualizer

// Multi paints every frame onto each of its surfaces in order.
type Multi []Surface

func (m Multi) Paint(f Frame) {
	for _, s := range m {
		if s != nil {
			s.Paint(f)
		}
	}
}
