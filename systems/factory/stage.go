package factory

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"

	"github.com/hollowmoor/scenery/archetypes"
	"github.com/hollowmoor/scenery/components"
	"github.com/hollowmoor/scenery/events"
	"github.com/hollowmoor/scenery/scene"
)

// CreateStage spawns the singleton entity manager. It must exist before any
// scene object is created.
func CreateStage(ecs *ecs.ECS, sc *scene.Scene, bus *events.Bus, log *zap.Logger) *donburi.Entry {
	stage := archetypes.Stage.Spawn(ecs)
	components.Stage.SetValue(stage, components.NewStageData(sc, bus, log))
	return stage
}
