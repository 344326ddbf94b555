package config

import (
	"fmt"
	"os"

	"github.com/yohamta/donburi/ecs"
	"gopkg.in/yaml.v3"
)

// Default is the ECS layer every runtime entity and renderer lives on.
const Default ecs.LayerID = 0

// EngineConfig contains window and frame-loop configuration.
type EngineConfig struct {
	Title  string
	Width  int
	Height int

	// TimeStep is the fixed simulation step in seconds. The frame driver
	// (ebiten) ticks at 60 Hz, so every system advances by this amount.
	TimeStep float64

	// AssetRoots are the project-relative directories searched, in order,
	// when resolving sprite/script/font/scene references.
	AssetRoots []string

	// SceneIndex is the scene index file, relative to an asset root.
	SceneIndex string
}

// PhysicsConfig contains world-step tuning for dynamic bodies.
type PhysicsConfig struct {
	Gravity      float64 // per-step vertical acceleration for dynamic bodies
	MaxFallSpeed float64
	CellWidth    int // resolv space cell size
	CellHeight   int
}

// CameraConfig contains camera follow and tween tuning.
type CameraConfig struct {
	FollowSmoothing float64 // 0..1, fraction of remaining distance per step
	PanDuration     float32 // seconds, scripted camera pans
	ZoomDuration    float32 // seconds, scripted zoom changes
}

// DebugConfig toggles diagnostic rendering.
type DebugConfig struct {
	DrawBounds  bool // outline colliders and trigger volumes
	LogWarnings bool // log scene load warnings individually
}

var (
	C = EngineConfig{
		Title:      "scenery",
		Width:      960,
		Height:     540,
		TimeStep:   1.0 / 60.0,
		AssetRoots: []string{"assets", "."},
		SceneIndex: "scenes/index.json",
	}

	Physics = PhysicsConfig{
		Gravity:      0.5,
		MaxFallSpeed: 12.0,
		CellWidth:    16,
		CellHeight:   16,
	}

	Camera = CameraConfig{
		FollowSmoothing: 0.08,
		PanDuration:     0.6,
		ZoomDuration:    0.4,
	}

	Debug = DebugConfig{
		DrawBounds:  false,
		LogWarnings: true,
	}
)

// fileConfig mirrors the optional YAML overlay. Pointer fields distinguish
// "absent" from zero values so the compiled defaults survive a partial file.
type fileConfig struct {
	Title      *string  `yaml:"title"`
	Width      *int     `yaml:"width"`
	Height     *int     `yaml:"height"`
	AssetRoots []string `yaml:"assetRoots"`
	SceneIndex *string  `yaml:"sceneIndex"`

	Physics struct {
		Gravity      *float64 `yaml:"gravity"`
		MaxFallSpeed *float64 `yaml:"maxFallSpeed"`
	} `yaml:"physics"`

	Camera struct {
		FollowSmoothing *float64 `yaml:"followSmoothing"`
		PanDuration     *float32 `yaml:"panDuration"`
	} `yaml:"camera"`

	Debug struct {
		DrawBounds  *bool `yaml:"drawBounds"`
		LogWarnings *bool `yaml:"logWarnings"`
	} `yaml:"debug"`
}

// Load overlays the compiled defaults with values from a YAML file. A missing
// file is not an error; a malformed one is.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Title != nil {
		C.Title = *fc.Title
	}
	if fc.Width != nil {
		C.Width = *fc.Width
	}
	if fc.Height != nil {
		C.Height = *fc.Height
	}
	if len(fc.AssetRoots) > 0 {
		C.AssetRoots = fc.AssetRoots
	}
	if fc.SceneIndex != nil {
		C.SceneIndex = *fc.SceneIndex
	}
	if fc.Physics.Gravity != nil {
		Physics.Gravity = *fc.Physics.Gravity
	}
	if fc.Physics.MaxFallSpeed != nil {
		Physics.MaxFallSpeed = *fc.Physics.MaxFallSpeed
	}
	if fc.Camera.FollowSmoothing != nil {
		Camera.FollowSmoothing = *fc.Camera.FollowSmoothing
	}
	if fc.Camera.PanDuration != nil {
		Camera.PanDuration = *fc.Camera.PanDuration
	}
	if fc.Debug.DrawBounds != nil {
		Debug.DrawBounds = *fc.Debug.DrawBounds
	}
	if fc.Debug.LogWarnings != nil {
		Debug.LogWarnings = *fc.Debug.LogWarnings
	}
	return nil
}
