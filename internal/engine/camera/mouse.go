package camera

// MouseTracker turns absolute cursor positions into per-event deltas.
// It is owned by the frame driver and fed one sample per motion event.
type MouseTracker struct {
	LastX, LastY     float32
	FirstSampleTaken bool
}

// NewMouseTracker creates a tracker centered on a viewport.
func NewMouseTracker(width, height int) *MouseTracker {
	return &MouseTracker{
		LastX: float32(width) / 2,
		LastY: float32(height) / 2,
	}
}

// Sample records a cursor position and returns the offset since the
// previous one. The first sample only primes the tracker and yields zero,
// which avoids a large jump when the cursor enters the window. The Y
// offset is inverted because window coordinates grow downward.
func (m *MouseTracker) Sample(x, y float32) (dx, dy float32) {
	if !m.FirstSampleTaken {
		m.FirstSampleTaken = true
		m.LastX = x
		m.LastY = y
	}

	dx = x - m.LastX
	dy = m.LastY - y

	m.LastX = x
	m.LastY = y
	return dx, dy
}

// Reset forgets the last position, e.g. after the window regains focus.
func (m *MouseTracker) Reset() {
	m.FirstSampleTaken = false
}
