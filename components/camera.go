package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/math"

	"github.com/hollowmoor/scenery/scene"
)

// CameraData is the singleton view state. Pan and zoom tweens are optional;
// when present the camera system steps them each frame and drops them on
// completion.
type CameraData struct {
	Position math.Vec2
	Zoom     float64
	Bounds   *scene.Bounds

	FollowID string // entity id to follow, empty for scripted control

	PanX, PanY *gween.Tween
	ZoomTween  *gween.Tween
}

var Camera = donburi.NewComponentType[CameraData]()
