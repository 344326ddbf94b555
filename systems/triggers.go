package systems

import (
	"sort"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/hollowmoor/scenery/components"
	"github.com/hollowmoor/scenery/config"
	"github.com/hollowmoor/scenery/events"
	"github.com/hollowmoor/scenery/scene"
)

// RequestInteract records an interaction request for an actor this frame.
// The trigger update routes it to every onInteract trigger the actor
// currently overlaps (or last targeted), so interaction never acts at a
// distance.
func RequestInteract(e *ecs.ECS, actorID string) {
	stage := stageOf(e)
	if stage == nil {
		return
	}
	stage.InteractRequests = append(stage.InteractRequests, actorID)
}

// candidate is one entity eligible for overlap testing this frame.
type candidate struct {
	id     string
	bounds components.Rect
	entry  *donburi.Entry
}

// UpdateTriggers derives enter/exit/stay/interact firings from per-frame
// axis-aligned overlap. Triggers are visited in creation order and targets
// in id order, so a given scene state always fires in the same sequence.
func UpdateTriggers(e *ecs.ECS) {
	stage := stageOf(e)
	if stage == nil {
		return
	}
	dt := config.C.TimeStep

	triggers, targets := collectCandidates(e, stage)
	interacts := stage.InteractRequests
	stage.InteractRequests = nil

	for _, trig := range triggers {
		data := components.Trigger.Get(trig.entry)

		// Cooldown decays every frame, overlapping or not.
		if data.CooldownLeft > 0 {
			data.CooldownLeft -= dt
			if data.CooldownLeft < 0 {
				data.CooldownLeft = 0
			}
		}

		now := map[string]struct{}{}
		for _, target := range targets {
			if target.id == trig.id {
				continue
			}
			if trig.bounds.Overlaps(target.bounds) {
				now[target.id] = struct{}{}
			}
		}
		prev := data.Overlaps
		data.Overlaps = now

		entered := sortedDiff(now, prev)
		left := sortedDiff(prev, now)

		switch data.Event {
		case scene.EventEnter:
			for _, target := range entered {
				fireTrigger(e, stage, trig, data, target)
			}
		case scene.EventExit:
			for _, target := range left {
				fireTrigger(e, stage, trig, data, target)
			}
		case scene.EventStay:
			// One readiness check gates the whole frame so every
			// overlapping target fires together.
			if len(now) > 0 && data.Ready() {
				targets := make([]string, 0, len(now))
				for id := range now {
					targets = append(targets, id)
				}
				sort.Strings(targets)
				for _, target := range targets {
					dispatchFiring(e, stage, trig, data, target)
				}
				latchFired(data)
			}
		case scene.EventInteract:
			if len(entered) > 0 {
				data.LastTarget = entered[len(entered)-1]
			}
			for _, actor := range interacts {
				_, over := now[actor]
				if !over && actor != data.LastTarget {
					continue
				}
				fireTrigger(e, stage, trig, data, actor)
			}
		}
	}
}

// collectCandidates snapshots this frame's trigger owners and overlap
// targets with their bounds. Bounds come from the collider when one exists,
// else straight from the transform. Entities queued for destruction no
// longer participate on either side. Only targets must be visible: a hidden
// trigger volume is the normal way to author an invisible zone, so it keeps
// firing.
func collectCandidates(e *ecs.ECS, stage *components.StageData) (triggers, targets []candidate) {
	stage.EachInCreationOrder(e.World, func(entry *donburi.Entry) {
		ent := components.Entity.Get(entry)
		if stage.PendingDestroy(ent.ID) {
			return
		}
		c := candidate{
			id:     ent.ID,
			bounds: boundsOf(entry),
			entry:  entry,
		}
		if entry.HasComponent(components.Trigger) {
			triggers = append(triggers, c)
		}
		if ent.Visible {
			targets = append(targets, c)
		}
	})
	return triggers, targets
}

func boundsOf(entry *donburi.Entry) components.Rect {
	tf := components.Transform.Get(entry)
	if entry.HasComponent(components.Collider) {
		return components.Collider.Get(entry).Bounds(tf)
	}
	return tf.WorldBounds()
}

// fireTrigger applies the shared firing policy for a single firing, then
// dispatches it.
func fireTrigger(e *ecs.ECS, stage *components.StageData, trig candidate, data *components.TriggerData, target string) {
	if !data.Ready() {
		return
	}
	dispatchFiring(e, stage, trig, data, target)
	latchFired(data)
}

func latchFired(data *components.TriggerData) {
	if data.Cooldown > 0 {
		data.CooldownLeft = data.Cooldown
	}
	if data.OneShot {
		data.Fired = true
	}
}

// dispatchFiring runs the three independent dispatch paths in order: the
// owner's behavior hook, the trigger's own script, then the process-wide
// bus (named action first, generic kind event always). A typed world event
// follows for ECS-side subscribers.
func dispatchFiring(e *ecs.ECS, stage *components.StageData, trig candidate, data *components.TriggerData, target string) {
	if trig.entry.HasComponent(components.Behavior) {
		components.Behavior.Get(trig.entry).Inst.CallOnTrigger(target, data.Event)
	}

	data.Inst.CallEvent(data.Event, target)

	payload := events.TriggerPayload{
		Event:  data.Event,
		Action: data.Action,
		Source: trig.id,
		Target: target,
	}
	if data.Action != "" {
		stage.Bus.Publish("action."+data.Action, payload)
	}
	stage.Bus.Publish("trigger:"+data.Event, payload)

	events.Trigger.Publish(e.World, payload)

	if data.Event == scene.EventInteract {
		data.LastTarget = target
	}
}
