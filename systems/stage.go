package systems

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"

	"github.com/hollowmoor/scenery/components"
)

// stageOf resolves the singleton entity manager, nil when no scene is live.
func stageOf(e *ecs.ECS) *components.StageData {
	entry, ok := components.Stage.First(e.World)
	if !ok {
		return nil
	}
	return components.Stage.Get(entry)
}

// UpdateStage flushes the deferred-destroy queue, then synchronizes collider
// poses: static bodies follow their transform, dynamic transforms follow
// their body.
func UpdateStage(e *ecs.ECS) {
	stage := stageOf(e)
	if stage == nil {
		return
	}

	for _, id := range stage.TakePending() {
		destroyEntity(e, stage, id)
	}

	stage.EachInCreationOrder(e.World, func(entry *donburi.Entry) {
		if entry.HasComponent(components.Collider) {
			syncCollider(entry)
		}
	})
}

// destroyEntity tears one entity down in reverse attachment order: script
// hooks first, then the trigger's script, then the physics body, released
// exactly once.
func destroyEntity(e *ecs.ECS, stage *components.StageData, id string) {
	entry := stage.LookupEntry(e.World, id)
	if entry == nil {
		stage.Deregister(id)
		return
	}

	if entry.HasComponent(components.Behavior) {
		components.Behavior.Get(entry).Inst.CallOnDestroy()
	}
	if entry.HasComponent(components.Trigger) {
		components.Trigger.Get(entry).Inst.CallOnDestroy()
	}
	if entry.HasComponent(components.Collider) {
		releaseCollider(e, components.Collider.Get(entry))
	}

	stage.Deregister(id)
	entity := entry.Entity()
	e.World.Remove(entity)
	stage.Log.Debug("entity destroyed", zap.String("id", id))
}

// releaseCollider detaches the body from the space and drops the handle.
// Safe to call more than once; only the first call does anything.
func releaseCollider(e *ecs.ECS, col *components.ColliderData) {
	if col.State != components.ColliderBound {
		col.State = components.ColliderDestroyed
		return
	}
	if col.Body != nil {
		if spaceEntry, ok := components.Space.First(e.World); ok {
			components.Space.Get(spaceEntry).Remove(col.Body)
		}
		col.Body = nil
	}
	col.Contacts = nil
	col.State = components.ColliderDestroyed
}

// syncCollider keeps transform and body agreeing. The authority depends on
// the body kind: transforms drive static bodies, bodies drive dynamic ones.
func syncCollider(entry *donburi.Entry) {
	col := components.Collider.Get(entry)
	if col.State != components.ColliderBound || col.Body == nil {
		return
	}
	tf := components.Transform.Get(entry)
	if col.IsStatic {
		b := col.Bounds(tf)
		col.Body.X = b.X
		col.Body.Y = b.Y
		col.Body.W = b.W
		col.Body.H = b.H
		col.Body.Update()
		return
	}
	tf.Pos.X = col.Body.X - col.Offset.X
	tf.Pos.Y = col.Body.Y - col.Offset.Y
}

// Teardown destroys every live entity immediately, newest first, and runs
// the scene scripts' destroy hooks. Used on scene switch and shutdown.
func Teardown(e *ecs.ECS) {
	stage := stageOf(e)
	if stage == nil {
		return
	}

	var ids []string
	stage.EachInCreationOrder(e.World, func(entry *donburi.Entry) {
		ids = append(ids, components.Entity.Get(entry).ID)
	})
	for i := len(ids) - 1; i >= 0; i-- {
		destroyEntity(e, stage, ids[i])
	}
	for i := len(stage.SceneScripts) - 1; i >= 0; i-- {
		stage.SceneScripts[i].CallOnDestroy()
	}
	stage.SceneScripts = nil
}
