package factory

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	dmath "github.com/yohamta/donburi/features/math"

	"github.com/hollowmoor/scenery/archetypes"
	"github.com/hollowmoor/scenery/components"
	"github.com/hollowmoor/scenery/scene"
)

// CreateCamera spawns the singleton camera seeded from the scene's camera
// block.
func CreateCamera(ecs *ecs.ECS, sc *scene.Scene) *donburi.Entry {
	camera := archetypes.Camera.Spawn(ecs)
	data := components.CameraData{
		Position: dmath.Vec2{X: sc.Camera.DefaultPosition.X, Y: sc.Camera.DefaultPosition.Y},
		Zoom:     sc.Camera.DefaultZoom,
	}
	if data.Zoom <= 0 {
		data.Zoom = 1
	}
	if sc.Camera.Bounds != nil {
		b := *sc.Camera.Bounds
		data.Bounds = &b
	}
	components.Camera.SetValue(camera, data)
	return camera
}
