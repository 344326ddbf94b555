package systems

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi/ecs"

	"github.com/hollowmoor/scenery/components"
	"github.com/hollowmoor/scenery/config"
	"github.com/hollowmoor/scenery/scene"
)

// UpdateCamera steps scripted pan/zoom tweens, follows the follow target if
// one is set, and clamps the view center to the scene's camera bounds.
func UpdateCamera(e *ecs.ECS) {
	cameraEntry, ok := components.Camera.First(e.World)
	if !ok {
		return
	}
	camera := components.Camera.Get(cameraEntry)
	stage := stageOf(e)
	dt := float32(config.C.TimeStep)

	if camera.PanX != nil {
		v, done := camera.PanX.Update(dt)
		camera.Position.X = float64(v)
		if done {
			camera.PanX = nil
		}
	}
	if camera.PanY != nil {
		v, done := camera.PanY.Update(dt)
		camera.Position.Y = float64(v)
		if done {
			camera.PanY = nil
		}
	}
	if camera.ZoomTween != nil {
		v, done := camera.ZoomTween.Update(dt)
		camera.Zoom = float64(v)
		if done {
			camera.ZoomTween = nil
		}
	}

	// An entity tagged camera-follow becomes the follow target unless a
	// script already picked one.
	if camera.FollowID == "" && stage != nil {
		if ids := stage.ByTag(e.World, "camera-follow"); len(ids) > 0 {
			camera.FollowID = ids[0]
		}
	}

	// Following overrides a pan in progress; scripted zoom persists.
	if camera.FollowID != "" && stage != nil {
		if entry := stage.LookupEntry(e.World, camera.FollowID); entry != nil {
			b := components.Transform.Get(entry).WorldBounds()
			targetX := b.X + b.W/2
			targetY := b.Y + b.H/2
			camera.Position.X += (targetX - camera.Position.X) * config.Camera.FollowSmoothing
			camera.Position.Y += (targetY - camera.Position.Y) * config.Camera.FollowSmoothing
			camera.PanX, camera.PanY = nil, nil
		}
	}

	clampToBounds(camera)
}

// clampToBounds keeps the view inside the configured camera bounds. When a
// bounds axis is smaller than the view the camera centers on it.
func clampToBounds(camera *components.CameraData) {
	if camera.Bounds == nil || camera.Zoom <= 0 {
		return
	}
	b := camera.Bounds
	halfW := float64(config.C.Width) / 2 / camera.Zoom
	halfH := float64(config.C.Height) / 2 / camera.Zoom

	if b.Width <= halfW*2 {
		camera.Position.X = b.X + b.Width/2
	} else {
		camera.Position.X = clamp(camera.Position.X, b.X+halfW, b.X+b.Width-halfW)
	}
	if b.Height <= halfH*2 {
		camera.Position.Y = b.Y + b.Height/2
	} else {
		camera.Position.Y = clamp(camera.Position.Y, b.Y+halfH, b.Y+b.Height-halfH)
	}
}

// PanCamera starts a smooth scripted pan to a world position.
func PanCamera(e *ecs.ECS, to scene.Vec2) {
	cameraEntry, ok := components.Camera.First(e.World)
	if !ok {
		return
	}
	camera := components.Camera.Get(cameraEntry)
	camera.FollowID = ""
	camera.PanX = gween.New(float32(camera.Position.X), float32(to.X), config.Camera.PanDuration, ease.OutQuad)
	camera.PanY = gween.New(float32(camera.Position.Y), float32(to.Y), config.Camera.PanDuration, ease.OutQuad)
}

// ZoomCamera starts a smooth scripted zoom change.
func ZoomCamera(e *ecs.ECS, to float64) {
	cameraEntry, ok := components.Camera.First(e.World)
	if !ok {
		return
	}
	camera := components.Camera.Get(cameraEntry)
	camera.ZoomTween = gween.New(float32(camera.Zoom), float32(to), config.Camera.ZoomDuration, ease.OutQuad)
}

// FollowEntity locks the camera to an entity id; empty releases the follow.
func FollowEntity(e *ecs.ECS, id string) {
	cameraEntry, ok := components.Camera.First(e.World)
	if !ok {
		return
	}
	components.Camera.Get(cameraEntry).FollowID = id
}
