// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"

	"github.com/Faultbox/learngl/internal/engine/camera"
	"github.com/Faultbox/learngl/internal/engine/lighting"
	"github.com/Faultbox/learngl/internal/engine/model"
	"github.com/Faultbox/learngl/internal/logger"
)

var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Model    ModelConfig    `yaml:"model"`
	Lighting LightingConfig `yaml:"lighting"`
	Shaders  ShadersConfig  `yaml:"shaders"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	Samples    int        `yaml:"samples"`
	ClearColor [3]float32 `yaml:"clear_color"`
	// ScreenshotDir receives F12 captures.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// CameraConfig holds the fly camera's starting pose and tunables.
type CameraConfig struct {
	Position       [3]float32 `yaml:"position"`
	Yaw            float32    `yaml:"yaw"`
	Pitch          float32    `yaml:"pitch"`
	FOV            float32    `yaml:"fov"`
	Speed          float32    `yaml:"speed"`
	SensitivityX   float32    `yaml:"sensitivity_x"`
	SensitivityY   float32    `yaml:"sensitivity_y"`
	Near           float32    `yaml:"near"`
	Far            float32    `yaml:"far"`
	ConstrainPitch bool       `yaml:"constrain_pitch"`
	// GroundClamp keeps the eye at or above GroundY.
	GroundClamp bool    `yaml:"ground_clamp"`
	GroundY     float32 `yaml:"ground_y"`
	// FrameModel ignores Position and backs the camera off until the
	// imported model fills the view.
	FrameModel bool `yaml:"frame_model"`
}

// ModelConfig selects the asset and how it is imported and placed.
type ModelConfig struct {
	Path    string `yaml:"path"`
	FlipUVs bool   `yaml:"flip_uvs"`
	// FlipTextures stores decoded images bottom row first.
	FlipTextures bool `yaml:"flip_textures"`
	// Textures lists the material slots to load, in binding order.
	Textures []string   `yaml:"textures"`
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"`
	Scale    [3]float32 `yaml:"scale"`
}

// LightingConfig describes the scene's lights.
type LightingConfig struct {
	Shininess   float32            `yaml:"shininess"`
	Sun         SunConfig          `yaml:"sun"`
	PointLights []PointLightConfig `yaml:"point_lights"`
	Flashlight  bool               `yaml:"flashlight"`
}

// SunConfig places the directional light in the sky, in degrees.
type SunConfig struct {
	Longitude float32 `yaml:"longitude"`
	Latitude  float32 `yaml:"latitude"`
}

// PointLightConfig is one point light.
type PointLightConfig struct {
	Position [3]float32 `yaml:"position"`
	Range    float32    `yaml:"range"`
}

// ShadersConfig overrides the built-in model shader. Empty paths use the
// embedded sources.
type ShadersConfig struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:         "LearnGL Model Viewer",
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			Samples:       4,
			ClearColor:    [3]float32{0.05, 0.05, 0.05},
			ScreenshotDir: "screenshots",
		},
		Camera: CameraConfig{
			Position:       [3]float32{0, 0, 3},
			Yaw:            camera.DefaultYaw,
			Pitch:          camera.DefaultPitch,
			FOV:            camera.DefaultFOV,
			Speed:          camera.DefaultSpeed,
			SensitivityX:   camera.DefaultSensitivityX,
			SensitivityY:   camera.DefaultSensitivityY,
			Near:           camera.DefaultNear,
			Far:            camera.DefaultFar,
			ConstrainPitch: true,
		},
		Model: ModelConfig{
			Textures: []string{"diffuse", "specular", "normal", "height"},
			Scale:    [3]float32{1, 1, 1},
		},
		Lighting: LightingConfig{
			Shininess: lighting.DefaultShininess,
			Sun:       SunConfig{Longitude: 45, Latitude: 60},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every setting that cannot be used, combined into one
// error wrapping ErrInvalid.
func (c *Config) Validate() error {
	var errs error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d", c.Window.Width, c.Window.Height)
	check(c.Window.Samples >= 0, "window.samples %d", c.Window.Samples)
	check(c.Camera.FOV >= camera.MinFOV && c.Camera.FOV <= camera.MaxFOV,
		"camera.fov %v outside [%v, %v]", c.Camera.FOV, camera.MinFOV, camera.MaxFOV)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near,
		"camera near/far %v/%v", c.Camera.Near, c.Camera.Far)
	check(c.Camera.Speed >= 0, "camera.speed %v", c.Camera.Speed)
	_, slotErr := c.Model.Slots()
	check(slotErr == nil, "model.textures: %v", slotErr)
	check(len(c.Lighting.PointLights) <= lighting.MaxPointLights,
		"%d point lights, at most %d supported", len(c.Lighting.PointLights), lighting.MaxPointLights)
	check((c.Shaders.Vertex == "") == (c.Shaders.Fragment == ""),
		"shaders.vertex and shaders.fragment must be set together")

	return errs
}

// Options converts the camera section.
func (c CameraConfig) Options(width, height int) camera.Options {
	opts := camera.DefaultOptions()
	opts.Position = mgl32.Vec3(c.Position)
	opts.Yaw = c.Yaw
	opts.Pitch = c.Pitch
	opts.FOV = c.FOV
	opts.Speed = c.Speed
	opts.SensitivityX = c.SensitivityX
	opts.SensitivityY = c.SensitivityY
	opts.Near = c.Near
	opts.Far = c.Far
	if width > 0 && height > 0 {
		opts.Width = float32(width)
		opts.Height = float32(height)
	}
	return opts
}

// Slots parses the texture slot names.
func (m ModelConfig) Slots() ([]model.TextureType, error) {
	slots := make([]model.TextureType, 0, len(m.Textures))
	for _, name := range m.Textures {
		typ, err := model.ParseTextureType(name)
		if err != nil {
			return nil, err
		}
		slots = append(slots, typ)
	}
	return slots, nil
}

// Transform converts the placement fields. A zero scale means 1.
func (m ModelConfig) Transform() model.Transform {
	t := model.Transform{
		Position: mgl32.Vec3(m.Position),
		Rotation: mgl32.Vec3(m.Rotation),
		Scale:    mgl32.Vec3(m.Scale),
	}
	if t.Scale == (mgl32.Vec3{}) {
		t.Scale = mgl32.Vec3{1, 1, 1}
	}
	return t
}

// Set builds the light set. Point lights beyond the shader's limit are
// dropped with a warning.
func (l LightingConfig) Set() *lighting.Set {
	s := lighting.NewSet()
	s.Material.Shininess = l.Shininess
	s.Dir = lighting.NewSun(l.Sun.Longitude, l.Sun.Latitude)
	for i, p := range l.PointLights {
		if !s.AddPoint(lighting.NewPointLight(mgl32.Vec3(p.Position), p.Range)) {
			logger.Sugar.Warnf("ignoring point light %d: at most %d supported", i, lighting.MaxPointLights)
			break
		}
	}
	if l.Flashlight {
		spot := lighting.NewFlashlight()
		s.Spot = &spot
	}
	return s
}
