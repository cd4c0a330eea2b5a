package camera

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func TestNewDefaults(t *testing.T) {
	c := New()

	assert.Equal(t, mgl32.Vec3{0, 0, 0}, c.Position)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, c.WorldUp)
	assert.Equal(t, DefaultYaw, c.Yaw())
	assert.Equal(t, DefaultPitch, c.Pitch())
	assert.Equal(t, DefaultFOV, c.FOV)
	assert.Equal(t, DefaultSpeed, c.MovementSpeed)
	assert.Equal(t, DefaultSensitivityX, c.SensitivityX)
	assert.Equal(t, DefaultSensitivityY, c.SensitivityY)
	assert.Equal(t, DefaultWidth, c.Width)
	assert.Equal(t, DefaultHeight, c.Height)
	assert.Equal(t, DefaultNear, c.Near)
	assert.Equal(t, DefaultFar, c.Far)

	// Direction vectors are derived before first use.
	assertVecNear(t, mgl32.Vec3{0, 0, -1}, c.Front())
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, c.Right())
	assertVecNear(t, mgl32.Vec3{0, 1, 0}, c.Up())
}

func TestNewWithOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Position = mgl32.Vec3{1, 2, 3}
	opts.Yaw = 0
	opts.Pitch = 0
	opts.FOV = 45

	c := NewWithOptions(opts)

	assert.Equal(t, mgl32.Vec3{1, 2, 3}, c.Position)
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, c.Front())
	assertVecNear(t, mgl32.Vec3{0, 0, 1}, c.Right())
	assert.Equal(t, float32(45), c.FOV)
}

func TestBasisIsOrthonormal(t *testing.T) {
	c := New()
	for yaw := float32(-360); yaw <= 360; yaw += 15 {
		for pitch := MinPitch; pitch <= MaxPitch; pitch += 7 {
			c.SetOrientation(yaw, pitch)

			f, r, u := c.Front(), c.Right(), c.Up()
			assert.InDelta(t, 1, f.Len(), eps, "front length yaw=%v pitch=%v", yaw, pitch)
			assert.InDelta(t, 1, r.Len(), eps, "right length yaw=%v pitch=%v", yaw, pitch)
			assert.InDelta(t, 1, u.Len(), eps, "up length yaw=%v pitch=%v", yaw, pitch)
			assert.InDelta(t, 0, f.Dot(r), eps, "front.right yaw=%v pitch=%v", yaw, pitch)
			assert.InDelta(t, 0, f.Dot(u), eps, "front.up yaw=%v pitch=%v", yaw, pitch)
			assert.InDelta(t, 0, r.Dot(u), eps, "right.up yaw=%v pitch=%v", yaw, pitch)
		}
	}
}

func TestFrontUsesFullSphericalForm(t *testing.T) {
	c := New()
	c.SetOrientation(30, 45)

	yaw, pitch := gomath.Pi/6, gomath.Pi/4
	want := mgl32.Vec3{
		float32(gomath.Cos(yaw) * gomath.Cos(pitch)),
		float32(gomath.Sin(pitch)),
		float32(gomath.Sin(yaw) * gomath.Cos(pitch)),
	}
	assertVecNear(t, want, c.Front())
}

func TestPitchClamp(t *testing.T) {
	c := New()

	// 0.03 * 1000 * 5 = 150 degrees of requested pitch.
	for i := 0; i < 5; i++ {
		c.ProcessMouseMovement(0, 1000, true)
	}
	assert.Equal(t, MaxPitch, c.Pitch())

	for i := 0; i < 10; i++ {
		c.ProcessMouseMovement(0, -1000, true)
	}
	assert.Equal(t, MinPitch, c.Pitch())
}

func TestPitchUnconstrained(t *testing.T) {
	c := New()
	c.ProcessMouseMovement(0, 4000, false)
	assert.InDelta(t, 120, c.Pitch(), eps)

	// Vectors are still re-derived and normalized.
	assert.InDelta(t, 1, c.Front().Len(), eps)
}

func TestMouseMovementSensitivity(t *testing.T) {
	c := New()
	c.ProcessMouseMovement(100, 100, true)

	assert.InDelta(t, DefaultYaw+100*DefaultSensitivityX, c.Yaw(), eps)
	assert.InDelta(t, 100*DefaultSensitivityY, c.Pitch(), eps)

	// Yaw is not clamped.
	c.ProcessMouseMovement(20000, 0, true)
	assert.Greater(t, c.Yaw(), float32(360))
}

func TestMouseMovementRederivesVectors(t *testing.T) {
	c := New()
	before := c.Front()

	c.ProcessMouseMovement(1800, 0, true) // +90 degrees of yaw

	assert.NotEqual(t, before, c.Front())
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, c.Front())
}

func TestScrollClamp(t *testing.T) {
	tests := []struct {
		name   string
		deltas []float32
		want   float32
	}{
		{"zoom in within range", []float32{10}, 50},
		{"zoom out within range", []float32{-20}, 80},
		{"zoom in past minimum", []float32{20, 20, 20}, MinFOV},
		{"zoom out past maximum", []float32{-20, -20}, MaxFOV},
		{"back and forth", []float32{100, -5}, MinFOV + 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			front := c.Front()
			for _, d := range tt.deltas {
				c.ProcessMouseScroll(d)
			}
			assert.Equal(t, tt.want, c.FOV)
			assert.Equal(t, front, c.Front(), "scroll must not change orientation")
		})
	}
}

func TestResetFOV(t *testing.T) {
	opts := DefaultOptions()
	opts.FOV = 70
	c := NewWithOptions(opts)

	c.ProcessMouseScroll(30)
	require.Equal(t, float32(40), c.FOV)

	c.ResetFOV()
	assert.Equal(t, float32(70), c.FOV)
}

func TestProcessKeyboard(t *testing.T) {
	tests := []struct {
		dir  Direction
		want mgl32.Vec3
	}{
		{Forward, mgl32.Vec3{0, 0, -2.5}},
		{Backward, mgl32.Vec3{0, 0, 2.5}},
		{Left, mgl32.Vec3{-2.5, 0, 0}},
		{Right, mgl32.Vec3{2.5, 0, 0}},
		{Up, mgl32.Vec3{0, 2.5, 0}},
		{Down, mgl32.Vec3{0, -2.5, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			c := New()
			c.ProcessKeyboard(tt.dir, 1)
			assertVecNear(t, tt.want, c.Position)
		})
	}
}

func TestProcessKeyboardScalesWithDeltaTime(t *testing.T) {
	c := New()
	c.ProcessKeyboard(Forward, 0.5)
	c.ProcessKeyboard(Forward, 0.5)
	assertVecNear(t, mgl32.Vec3{0, 0, -2.5}, c.Position)
}

// Diagonal movement is not normalized: forward+left covers sqrt(2) times
// the single-axis distance.
func TestDiagonalMovementIsUnnormalized(t *testing.T) {
	c := New()
	c.ProcessKeyboard(Forward, 1)
	c.ProcessKeyboard(Left, 1)

	assertVecNear(t, mgl32.Vec3{-2.5, 0, -2.5}, c.Position)
	assert.InDelta(t, 2.5*gomath.Sqrt2, c.Position.Len(), eps)
}

func TestProjectionMatrix(t *testing.T) {
	c := New()
	got := c.ProjectionMatrix()

	fov := 60.0 * gomath.Pi / 180
	aspect := 800.0 / 600.0
	near, far := 0.1, 100.0
	f := 1 / gomath.Tan(fov/2)

	// Column-major reference perspective matrix.
	want := [16]float64{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) / (near - far), -1,
		0, 0, 2 * far * near / (near - far), 0,
	}
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "element %d", i)
	}
}

func TestProjectionFollowsFOVAndViewport(t *testing.T) {
	c := New()
	before := c.ProjectionMatrix()

	c.ProcessMouseScroll(10)
	assert.NotEqual(t, before, c.ProjectionMatrix())

	c.ResetFOV()
	c.SetViewport(1600, 600)
	p := c.ProjectionMatrix()
	assert.InDelta(t, before[0]/2, p[0], 1e-5)
	assert.Equal(t, before[5], p[5])
}

func TestSetViewportIgnoresEmptySize(t *testing.T) {
	c := New()
	c.SetViewport(0, 0)
	assert.Equal(t, DefaultWidth, c.Width)
	assert.Equal(t, DefaultHeight, c.Height)
}

func TestViewMatrix(t *testing.T) {
	c := New()
	c.Position = mgl32.Vec3{0, 0, 3}

	v := c.ViewMatrix()

	// Looking down -Z from (0,0,3): the world origin lands 3 units ahead.
	origin := v.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assertVecNear(t, mgl32.Vec3{0, 0, -3}, origin.Vec3())

	// The camera position maps to the view-space origin.
	eye := v.Mul4x1(c.Position.Vec4(1))
	assertVecNear(t, mgl32.Vec3{0, 0, 0}, eye.Vec3())
}

func TestViewMatrixIsPure(t *testing.T) {
	c := New()
	c.ProcessMouseMovement(123, 45, true)
	first := c.ViewMatrix()
	second := c.ViewMatrix()
	assert.Equal(t, first, second)
}

func TestClampToGround(t *testing.T) {
	c := New()
	c.Position = mgl32.Vec3{1, -4, 2}
	c.ClampToGround(0)
	assert.Equal(t, mgl32.Vec3{1, 0, 2}, c.Position)

	c.Position = mgl32.Vec3{1, 5, 2}
	c.ClampToGround(0)
	assert.Equal(t, mgl32.Vec3{1, 5, 2}, c.Position)
}

func assertVecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], eps, "component %d of %v", i, got)
	}
}

func TestFrame(t *testing.T) {
	c := New()
	c.FOV = 90
	center := mgl32.Vec3{5, 1, -2}

	c.Frame(center, 2)

	// With a 90 degree FOV the half angle is 45, so the distance is r/sin(45).
	want := float32(2 / gomath.Sin(gomath.Pi/4))
	assert.InDelta(t, want, c.Position.Sub(center).Len(), 1e-4)
	// The center stays straight ahead.
	dir := center.Sub(c.Position).Normalize()
	assertVecNear(t, c.Front(), dir)
	assert.Equal(t, DefaultYaw, c.Yaw())
}

func TestFrameExtendsFarPlane(t *testing.T) {
	c := New()
	c.Far = 10

	c.Frame(mgl32.Vec3{}, 50)

	dist := c.Position.Len()
	assert.Greater(t, c.Far, dist+50)
}

func TestFrameZeroRadius(t *testing.T) {
	c := New()
	c.Frame(mgl32.Vec3{}, 0)
	assert.Greater(t, c.Position.Len(), float32(0))
}
