// Package camera provides a free-look (fly) camera for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Default camera settings.
const (
	DefaultYaw          float32 = -90.0
	DefaultPitch        float32 = 0.0
	DefaultFOV          float32 = 60.0
	DefaultSpeed        float32 = 2.5
	DefaultSensitivityX float32 = 0.05
	DefaultSensitivityY float32 = 0.03
	DefaultWidth        float32 = 800
	DefaultHeight       float32 = 600
	DefaultNear         float32 = 0.1
	DefaultFar          float32 = 100.0
)

// Orientation and zoom limits, in degrees.
const (
	MaxPitch float32 = 89.0
	MinPitch float32 = -89.0
	MaxFOV   float32 = 90.0
	MinFOV   float32 = 30.0
)

// Direction is a keyboard movement direction.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
	Up
	Down
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Options fully parameterizes a camera.
type Options struct {
	Position     mgl32.Vec3
	WorldUp      mgl32.Vec3
	Yaw          float32 // degrees
	Pitch        float32 // degrees
	FOV          float32 // degrees
	Speed        float32 // units per second
	SensitivityX float32
	SensitivityY float32
	Width        float32
	Height       float32
	Near         float32
	Far          float32
}

// DefaultOptions returns the default camera parameters.
func DefaultOptions() Options {
	return Options{
		Position:     mgl32.Vec3{0, 0, 0},
		WorldUp:      mgl32.Vec3{0, 1, 0},
		Yaw:          DefaultYaw,
		Pitch:        DefaultPitch,
		FOV:          DefaultFOV,
		Speed:        DefaultSpeed,
		SensitivityX: DefaultSensitivityX,
		SensitivityY: DefaultSensitivityY,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Near:         DefaultNear,
		Far:          DefaultFar,
	}
}

// Camera is a yaw/pitch free-look camera.
//
// Front, right and up are derived from yaw, pitch and WorldUp and are
// recomputed whenever the orientation changes, so they are always an
// orthonormal basis.
type Camera struct {
	Position mgl32.Vec3
	WorldUp  mgl32.Vec3

	// Tunables
	MovementSpeed float32
	SensitivityX  float32
	SensitivityY  float32

	// Projection
	FOV    float32 // degrees
	Width  float32
	Height float32
	Near   float32
	Far    float32

	yaw        float32
	pitch      float32
	defaultFOV float32

	front mgl32.Vec3
	right mgl32.Vec3
	up    mgl32.Vec3
}

// New creates a camera with default settings.
func New() *Camera {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a camera from explicit parameters.
func NewWithOptions(opts Options) *Camera {
	c := &Camera{
		Position:      opts.Position,
		WorldUp:       opts.WorldUp,
		MovementSpeed: opts.Speed,
		SensitivityX:  opts.SensitivityX,
		SensitivityY:  opts.SensitivityY,
		FOV:           opts.FOV,
		Width:         opts.Width,
		Height:        opts.Height,
		Near:          opts.Near,
		Far:           opts.Far,
		yaw:           opts.Yaw,
		pitch:         opts.Pitch,
		defaultFOV:    opts.FOV,
	}
	c.updateVectors()
	return c
}

// Yaw returns the horizontal angle in degrees.
func (c *Camera) Yaw() float32 { return c.yaw }

// Pitch returns the vertical angle in degrees.
func (c *Camera) Pitch() float32 { return c.pitch }

// Front returns the unit view direction.
func (c *Camera) Front() mgl32.Vec3 { return c.front }

// Right returns the unit right vector.
func (c *Camera) Right() mgl32.Vec3 { return c.right }

// Up returns the unit camera-local up vector.
func (c *Camera) Up() mgl32.Vec3 { return c.up }

// SetOrientation sets yaw and pitch directly. Pitch is clamped.
func (c *Camera) SetOrientation(yaw, pitch float32) {
	c.yaw = yaw
	c.pitch = clamp(pitch, MinPitch, MaxPitch)
	c.updateVectors()
}

// ViewMatrix returns the look-at matrix for the current position and
// orientation.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.front), c.WorldUp)
}

// ProjectionMatrix returns the perspective projection matrix.
// Height must be nonzero.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Width/c.Height, c.Near, c.Far)
}

// ProcessKeyboard moves the camera in the given direction for dt seconds.
// Directions are applied independently, so two held keys move diagonally
// at sqrt(2) times the axis speed.
func (c *Camera) ProcessKeyboard(dir Direction, dt float32) {
	velocity := c.MovementSpeed * dt

	switch dir {
	case Forward:
		c.Position = c.Position.Add(c.front.Mul(velocity))
	case Backward:
		c.Position = c.Position.Sub(c.front.Mul(velocity))
	case Left:
		c.Position = c.Position.Sub(c.right.Mul(velocity))
	case Right:
		c.Position = c.Position.Add(c.right.Mul(velocity))
	case Up:
		c.Position = c.Position.Add(c.WorldUp.Mul(velocity))
	case Down:
		c.Position = c.Position.Sub(c.WorldUp.Mul(velocity))
	}
}

// ProcessMouseMovement turns the camera by a mouse delta. With
// constrainPitch the pitch stays within [MinPitch, MaxPitch] so the view
// never flips over the poles.
func (c *Camera) ProcessMouseMovement(dx, dy float32, constrainPitch bool) {
	c.yaw += dx * c.SensitivityX
	c.pitch += dy * c.SensitivityY

	if constrainPitch {
		c.pitch = clamp(c.pitch, MinPitch, MaxPitch)
	}

	c.updateVectors()
}

// ProcessMouseScroll zooms by narrowing or widening the field of view.
func (c *Camera) ProcessMouseScroll(dy float32) {
	c.FOV = clamp(c.FOV-dy, MinFOV, MaxFOV)
}

// ResetFOV restores the field of view the camera was created with.
func (c *Camera) ResetFOV() {
	c.FOV = c.defaultFOV
}

// SetViewport updates the aspect ratio inputs. Non-positive sizes, such as
// a minimized window, are ignored.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Width = float32(width)
	c.Height = float32(height)
}

// ClampToGround keeps the camera at or above groundY along the Y axis.
func (c *Camera) ClampToGround(groundY float32) {
	if c.Position.Y() < groundY {
		c.Position[1] = groundY
	}
}

// Frame backs the camera away from center along its current view direction
// until a sphere of the given radius fits the vertical field of view. The
// far plane is pushed out if the sphere would be clipped.
func (c *Camera) Frame(center mgl32.Vec3, radius float32) {
	if radius <= 0 {
		radius = 1
	}
	half := float64(mgl32.DegToRad(c.FOV)) / 2
	dist := radius / float32(gomath.Sin(half))
	c.Position = center.Sub(c.front.Mul(dist))
	if reach := dist + radius; reach > c.Far {
		c.Far = reach * 2
	}
}

func (c *Camera) updateVectors() {
	yaw := float64(mgl32.DegToRad(c.yaw))
	pitch := float64(mgl32.DegToRad(c.pitch))

	front := mgl32.Vec3{
		float32(gomath.Cos(yaw) * gomath.Cos(pitch)),
		float32(gomath.Sin(pitch)),
		float32(gomath.Sin(yaw) * gomath.Cos(pitch)),
	}

	c.front = front.Normalize()
	c.right = c.front.Cross(c.WorldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
