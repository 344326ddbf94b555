package systems

import (
	"testing"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"

	"github.com/hollowmoor/scenery/behavior"
	"github.com/hollowmoor/scenery/components"
	"github.com/hollowmoor/scenery/events"
	"github.com/hollowmoor/scenery/scene"
	"github.com/hollowmoor/scenery/systems/factory"
)

func testScene() *scene.Scene {
	return &scene.Scene{
		ID:     "t",
		Size:   scene.Size{Width: 300, Height: 300},
		Camera: scene.Camera{DefaultZoom: 1},
	}
}

func newTestECS(sc *scene.Scene) *ecs.ECS {
	e := ecs.NewECS(donburi.NewWorld())
	factory.CreateStage(e, sc, events.NewBus(), zap.NewNop())
	factory.CreateSpace(e, int(sc.Size.Width), int(sc.Size.Height))
	factory.CreateCamera(e, sc)
	return e
}

func def(id, typ string, x, y, w, h float64) scene.Object {
	return scene.Object{
		ID:       id,
		Type:     typ,
		Name:     id,
		Position: scene.Vec2{X: x, Y: y},
		Size:     scene.Size{Width: w, Height: h},
		Scale:    scene.Vec2{X: 1, Y: 1},
		Opacity:  1,
		Visible:  true,
	}
}

func spawn(e *ecs.ECS, d scene.Object) *donburi.Entry {
	return factory.CreateObject(e, &d)
}

func entryOf(e *ecs.ECS, id string) *donburi.Entry {
	return stageOf(e).LookupEntry(e.World, id)
}

func moveTo(e *ecs.ECS, id string, x, y float64) {
	tf := components.Transform.Get(entryOf(e, id))
	tf.Pos.X = x
	tf.Pos.Y = y
}

// hookRecorder is a behavior table whose hooks delegate to test closures.
// Nil closures leave the capability undeclared via the wrapper types below.
type hookRecorder struct {
	onInit    func()
	update    func(dt float64)
	onTrigger func(targetID, event string)
	onEnter   func(targetID string)
	onExit    func(targetID string)
	onDestroy func()
	colEnter  func(otherID string)
	colExit   func(otherID string)
}

func (h *hookRecorder) OnInit(*behavior.Context) {
	if h.onInit != nil {
		h.onInit()
	}
}

func (h *hookRecorder) Update(_ *behavior.Context, dt float64) {
	if h.update != nil {
		h.update(dt)
	}
}

func (h *hookRecorder) OnTrigger(_ *behavior.Context, targetID, event string) {
	if h.onTrigger != nil {
		h.onTrigger(targetID, event)
	}
}

func (h *hookRecorder) OnEnter(_ *behavior.Context, targetID string) {
	if h.onEnter != nil {
		h.onEnter(targetID)
	}
}

func (h *hookRecorder) OnExit(_ *behavior.Context, targetID string) {
	if h.onExit != nil {
		h.onExit(targetID)
	}
}

func (h *hookRecorder) OnDestroy(*behavior.Context) {
	if h.onDestroy != nil {
		h.onDestroy()
	}
}

func (h *hookRecorder) OnCollisionEnter(_ *behavior.Context, otherID string) {
	if h.colEnter != nil {
		h.colEnter(otherID)
	}
}

func (h *hookRecorder) OnCollisionExit(_ *behavior.Context, otherID string) {
	if h.colExit != nil {
		h.colExit(otherID)
	}
}

func registerTestBehavior(t *testing.T, path string, table behavior.Table) {
	t.Helper()
	behavior.Register(path, func() behavior.Table { return table })
}

// step runs the update half of the frame pipeline in its fixed order.
func step(e *ecs.ECS) {
	UpdatePhysics(e)
	UpdateStage(e)
	UpdateTriggers(e)
	UpdateBehaviors(e)
	PumpEvents(e)
}
