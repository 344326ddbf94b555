package factory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/hollowmoor/scenery/components"
	"github.com/hollowmoor/scenery/scene"
)

// SpawnRuntime creates an entity outside scene load, e.g. from a behavior
// script. The prototype's id is made unique when empty or already live, and
// the script lifecycle (onLoad then onInit) runs immediately since there is
// no batch to wait for.
func SpawnRuntime(e *ecs.ECS, proto scene.Object) *donburi.Entry {
	stageEntry, ok := components.Stage.First(e.World)
	if !ok {
		return nil
	}
	stage := components.Stage.Get(stageEntry)

	if proto.ID == "" {
		proto.ID = fmt.Sprintf("%s-%s", proto.Type, uuid.NewString()[:8])
	} else if _, live := stage.Lookup(proto.ID); live {
		proto.ID = fmt.Sprintf("%s-%s", proto.ID, uuid.NewString()[:8])
	}

	entry := CreateObject(e, &proto)
	if entry == nil {
		return nil
	}
	if entry.HasComponent(components.Behavior) {
		components.Behavior.Get(entry).Inst.CallOnInit()
	}
	if entry.HasComponent(components.Trigger) {
		components.Trigger.Get(entry).Inst.CallOnInit()
	}
	return entry
}

// SpawnAtPoint instantiates a prototype at a named spawn marker. The
// marker's position replaces the prototype's own.
func SpawnAtPoint(e *ecs.ECS, spawnID string, proto scene.Object) *donburi.Entry {
	stageEntry, ok := components.Stage.First(e.World)
	if !ok {
		return nil
	}
	stage := components.Stage.Get(stageEntry)

	marker := stage.LookupEntry(e.World, spawnID)
	if marker == nil || !marker.HasComponent(components.Transform) {
		return nil
	}
	pos := components.Transform.Get(marker).Pos
	proto.Position = scene.Vec2{X: pos.X, Y: pos.Y}
	return SpawnRuntime(e, proto)
}
