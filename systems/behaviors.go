package systems

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/hollowmoor/scenery/components"
	"github.com/hollowmoor/scenery/config"
	"github.com/hollowmoor/scenery/events"
)

// UpdateBehaviors steps entity scripts in creation order, then the
// scene-level scripts. Every hook call is panic-guarded inside the instance,
// so one broken script never takes the frame down.
func UpdateBehaviors(e *ecs.ECS) {
	stage := stageOf(e)
	if stage == nil {
		return
	}
	dt := config.C.TimeStep

	stage.EachInCreationOrder(e.World, func(entry *donburi.Entry) {
		if !entry.HasComponent(components.Behavior) {
			return
		}
		ent := components.Entity.Get(entry)
		if stage.PendingDestroy(ent.ID) {
			return
		}
		components.Behavior.Get(entry).Inst.CallUpdate(dt)
	})

	for _, inst := range stage.SceneScripts {
		inst.CallUpdate(dt)
	}
}

// PumpEvents drains the typed world event queues after all systems ran, so
// subscribers observe a consistent end-of-frame state.
func PumpEvents(e *ecs.ECS) {
	events.ProcessAll(e.World)
}
