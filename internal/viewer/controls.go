package viewer

import (
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/engine/camera"
	"github.com/Faultbox/learngl/internal/engine/input"
	"github.com/Faultbox/learngl/internal/engine/lighting"
	"github.com/Faultbox/learngl/internal/logger"
)

// movementKeys maps held keys to camera movement.
var movementKeys = []struct {
	key sdl.Scancode
	dir camera.Direction
}{
	{sdl.SCANCODE_W, camera.Forward},
	{sdl.SCANCODE_S, camera.Backward},
	{sdl.SCANCODE_A, camera.Left},
	{sdl.SCANCODE_D, camera.Right},
	{sdl.SCANCODE_SPACE, camera.Up},
	{sdl.SCANCODE_LSHIFT, camera.Down},
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			// Event sizes are in screen coordinates; GL wants pixels.
			w, h := v.window.DrawableSize()
			v.renderer.Resize(int(w), int(h))
			v.camera.SetViewport(int(w), int(h))

		case input.EventKeyDown:
			v.handleKey(event.Key)

		case input.EventMouseMove:
			v.handleMouseMove(event)

		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_LEFT && !v.captured {
				v.looking = true
				v.mouse.Reset()
			}

		case input.EventMouseUp:
			if event.Button == sdl.BUTTON_LEFT {
				v.looking = false
			}

		case input.EventMouseWheel:
			v.camera.ProcessMouseScroll(event.Scroll)
		}
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_R:
		v.camera.ResetFOV()
	case sdl.SCANCODE_HOME:
		v.resetView()
	case sdl.SCANCODE_TAB:
		v.setCapture(!v.captured)
	case sdl.SCANCODE_L:
		v.renderer.ToggleWireframe()
	case sdl.SCANCODE_F:
		v.toggleFlashlight()
	case sdl.SCANCODE_F12:
		v.screenshotPending = true
	}
}

// handleMouseMove turns the camera. With the cursor captured SDL reports
// relative motion directly; otherwise absolute positions are tracked while
// the left button is held.
func (v *Viewer) handleMouseMove(e input.Event) {
	constrain := v.config.Camera.ConstrainPitch
	if v.captured {
		v.camera.ProcessMouseMovement(float32(e.RelX), -float32(e.RelY), constrain)
		return
	}
	if !v.looking {
		return
	}
	dx, dy := v.mouse.Sample(float32(e.MouseX), float32(e.MouseY))
	v.camera.ProcessMouseMovement(dx, dy, constrain)
}

func (v *Viewer) setCapture(capture bool) {
	v.captured = capture
	v.looking = false
	v.window.CaptureMouse(capture)
	v.mouse.Reset()
	logger.Debug("mouse capture", zap.Bool("captured", capture))
}

// takeScreenshot saves the frame just drawn. It runs before SwapBuffers so
// the back buffer still holds the frame.
func (v *Viewer) takeScreenshot() {
	v.screenshotPending = false
	pixels, w, h := v.renderer.ReadPixels()
	name, err := v.screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("file", name))
}

func (v *Viewer) toggleFlashlight() {
	if v.lights.Spot != nil {
		v.flash = v.lights.Spot
		v.lights.Spot = nil
	} else {
		if v.flash == nil {
			spot := lighting.NewFlashlight()
			v.flash = &spot
		}
		v.lights.Spot = v.flash
	}
	logger.Debug("flashlight toggled", zap.Bool("on", v.lights.Spot != nil))
}
