// Package viewer implements the model viewer's frame loop: it owns the
// window, camera, imported model and lights.
package viewer

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/learngl/internal/config"
	"github.com/Faultbox/learngl/internal/engine/camera"
	"github.com/Faultbox/learngl/internal/engine/debug"
	"github.com/Faultbox/learngl/internal/engine/input"
	"github.com/Faultbox/learngl/internal/engine/lighting"
	"github.com/Faultbox/learngl/internal/engine/model"
	"github.com/Faultbox/learngl/internal/engine/renderer"
	"github.com/Faultbox/learngl/internal/engine/scene"
	"github.com/Faultbox/learngl/internal/engine/shader"
	"github.com/Faultbox/learngl/internal/engine/window"
	"github.com/Faultbox/learngl/internal/logger"
	"github.com/Faultbox/learngl/internal/viewer/shaders"
	"github.com/Faultbox/learngl/pkg/formats"
)

// ErrNoModel is returned when no model path is configured and the user
// cancels the file dialog.
var ErrNoModel = errors.New("no model selected")

// Viewer is the main viewer instance.
type Viewer struct {
	config  *config.Config
	running bool
	closed  bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	camera   *camera.Camera
	mouse    *camera.MouseTracker
	captured bool
	looking  bool

	program   *shader.Program
	textures  *scene.TextureUploader
	model     *scene.GPUModel
	transform model.Transform
	bounds    *model.Bounds
	lights    *lighting.Set
	// flash keeps the spot light while it is switched off.
	flash *lighting.SpotLight

	screenshots       *debug.ScreenshotCapture
	screenshotPending bool
}

// ChooseModel returns the configured model path, asking with a native
// file dialog when none is set.
func ChooseModel(cfg *config.Config) (string, error) {
	if cfg.Model.Path != "" {
		return cfg.Model.Path, nil
	}
	path, err := dialog.File().
		Filter("glTF Models", "gltf", "glb").
		Filter("All Files", "*").
		Title("Open Model").
		Load()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return "", ErrNoModel
		}
		return "", fmt.Errorf("file dialog: %w", err)
	}
	return path, nil
}

// New opens the window, compiles the model program and imports the model
// at cfg.Model.Path.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("model", cfg.Model.Path),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	v := &Viewer{
		config:      cfg,
		transform:   cfg.Model.Transform(),
		lights:      cfg.Lighting.Set(),
		input:       input.New(),
		screenshots: debug.NewScreenshotCapture(cfg.Window.ScreenshotDir, "learngl"),
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      fmt.Sprintf("%s - %s", cfg.Window.Title, filepath.Base(cfg.Model.Path)),
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    cfg.Window.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	fbWidth, fbHeight := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:       int(fbWidth),
		Height:      int(fbHeight),
		ClearColor:  cfg.Window.ClearColor,
		Multisample: cfg.Window.Samples > 0,
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.camera = camera.NewWithOptions(cfg.Camera.Options(int(fbWidth), int(fbHeight)))
	w, h := v.window.GetSize()
	v.mouse = camera.NewMouseTracker(w, h)

	if err := v.loadProgram(); err != nil {
		v.Close()
		return nil, err
	}
	if err := v.loadModel(); err != nil {
		v.Close()
		return nil, err
	}

	v.setCapture(true)
	logger.Info("viewer initialized successfully")
	return v, nil
}

func (v *Viewer) loadProgram() error {
	var err error
	if v.config.Shaders.Vertex != "" {
		v.program, err = shader.LoadProgram(v.config.Shaders.Vertex, v.config.Shaders.Fragment)
	} else {
		v.program, err = shader.LoadProgramFS(shaders.FS, shaders.ModelVertex, shaders.ModelFragment)
	}
	if err != nil {
		return fmt.Errorf("model shader: %w", err)
	}
	return nil
}

func (v *Viewer) loadModel() error {
	slots, err := v.config.Model.Slots()
	if err != nil {
		return err
	}

	v.textures = scene.NewTextureUploader()
	v.textures.FlipVertical = v.config.Model.FlipTextures

	importer := &model.Importer{
		Parser:  formats.GLTFParser{},
		Loader:  v.textures,
		Slots:   slots,
		FlipUVs: v.config.Model.FlipUVs,
	}
	m, err := importer.Load(v.config.Model.Path)
	if err != nil {
		return err
	}
	if errs := m.TextureErrors(); len(errs) > 0 {
		logger.Warn("model has missing textures", zap.Int("count", len(errs)))
	}

	v.model = scene.Upload(m, v.textures.Fallback())
	logger.Info("model uploaded",
		zap.Int("meshes", len(v.model.Meshes)),
		zap.Int("textures", v.textures.Uploads()),
	)
	v.frameModel(m)
	return nil
}

// frameModel logs the model's world-space bounds and, when configured,
// moves the camera so the whole model is in view.
func (v *Viewer) frameModel(m *model.Model) {
	local, ok := m.Bounds()
	if !ok {
		logger.Warn("model has no vertices")
		return
	}
	world := local.Transform(v.transform.Matrix())
	v.bounds = &world
	logger.Info("model bounds",
		zap.Float32s("min", world.Min[:]),
		zap.Float32s("max", world.Max[:]),
		zap.Float32("radius", world.Radius()),
	)
	if v.config.Camera.FrameModel {
		v.camera.Frame(world.Center(), world.Radius())
	}
}

// resetView returns the camera to its configured pose, framing the model
// again when configured to.
func (v *Viewer) resetView() {
	cc := v.config.Camera
	v.camera.Position = mgl32.Vec3(cc.Position)
	v.camera.SetOrientation(cc.Yaw, cc.Pitch)
	v.camera.ResetFOV()
	if cc.FrameModel && v.bounds != nil {
		v.camera.Frame(v.bounds.Center(), v.bounds.Radius())
	}
	logger.Debug("view reset")
}

// Run starts the main loop. It returns when the window is closed or
// Escape is pressed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting frame loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		v.update(dt)
		v.render()
		if v.screenshotPending {
			v.takeScreenshot()
		}

		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float32("dtMs", dt*1000),
				zap.Float32("fov", v.camera.FOV),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// update applies held movement keys and moves camera-bound lights.
func (v *Viewer) update(dt float32) {
	for _, b := range movementKeys {
		if v.input.IsKeyHeld(b.key) {
			v.camera.ProcessKeyboard(b.dir, dt)
		}
	}
	if v.config.Camera.GroundClamp {
		v.camera.ClampToGround(v.config.Camera.GroundY)
	}
	v.lights.FollowCamera(v.camera.Position, v.camera.Front())
}

func (v *Viewer) render() {
	v.renderer.Begin()
	v.renderer.DrawModel(v.program, v.model, v.transform, renderer.Frame{
		View:       v.camera.ViewMatrix(),
		Projection: v.camera.ProjectionMatrix(),
		Eye:        v.camera.Position,
	}, v.lights)
	v.renderer.End()
}

// Close releases GPU resources, then the window. Safe to call more than
// once and on a partially constructed viewer.
func (v *Viewer) Close() {
	if v.closed {
		return
	}
	v.closed = true
	logger.Info("closing viewer")

	if v.model != nil {
		v.model.Release()
	}
	if v.textures != nil {
		v.textures.Release()
	}
	if v.program != nil {
		v.program.Delete()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
