package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMouseTrackerFirstSample(t *testing.T) {
	m := NewMouseTracker(800, 600)
	assert.Equal(t, float32(400), m.LastX)
	assert.Equal(t, float32(300), m.LastY)

	// The first event is far from center but must not jerk the view.
	dx, dy := m.Sample(10, 20)
	assert.Zero(t, dx)
	assert.Zero(t, dy)
	assert.True(t, m.FirstSampleTaken)
}

func TestMouseTrackerDeltas(t *testing.T) {
	m := NewMouseTracker(800, 600)
	m.Sample(100, 100)

	dx, dy := m.Sample(110, 90)
	assert.Equal(t, float32(10), dx)
	assert.Equal(t, float32(10), dy, "moving the cursor up yields positive dy")

	dx, dy = m.Sample(105, 95)
	assert.Equal(t, float32(-5), dx)
	assert.Equal(t, float32(-5), dy)
}

func TestMouseTrackerReset(t *testing.T) {
	m := NewMouseTracker(800, 600)
	m.Sample(0, 0)
	m.Reset()

	dx, dy := m.Sample(500, 500)
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}

func TestMouseTrackerDrivesCamera(t *testing.T) {
	c := New()
	m := NewMouseTracker(800, 600)

	for _, p := range [][2]float32{{400, 300}, {420, 280}, {440, 260}} {
		dx, dy := m.Sample(p[0], p[1])
		c.ProcessMouseMovement(dx, dy, true)
	}

	assert.InDelta(t, DefaultYaw+40*DefaultSensitivityX, c.Yaw(), eps)
	assert.InDelta(t, 40*DefaultSensitivityY, c.Pitch(), eps)
}
