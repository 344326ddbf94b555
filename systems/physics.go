package systems

import (
	"math"
	"sort"

	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/hollowmoor/scenery/components"
	"github.com/hollowmoor/scenery/config"
	"github.com/hollowmoor/scenery/events"
	"github.com/hollowmoor/scenery/tags"
)

// UpdatePhysics integrates every dynamic body against the solid set, then
// diffs per-collider contact sets to raise collision begin/end callbacks.
// Runs first in the frame: the stage update that follows pulls the resolved
// poses back into transforms.
func UpdatePhysics(e *ecs.ECS) {
	stage := stageOf(e)
	if stage == nil {
		return
	}

	stage.EachInCreationOrder(e.World, func(entry *donburi.Entry) {
		if !entry.HasComponent(components.Physics) || !entry.HasComponent(components.Collider) {
			return
		}
		col := components.Collider.Get(entry)
		if col.State != components.ColliderBound || col.Body == nil {
			return
		}
		stepBody(col, components.Physics.Get(entry))
	})

	dispatchContacts(e, stage)
}

// stepBody performs one fixed-step move for a dynamic body, axis by axis so
// sliding along walls works. Sensors move without resolution.
func stepBody(col *components.ColliderData, phys *components.PhysicsData) {
	if phys.Gravity {
		phys.SpeedY += config.Physics.Gravity
		if phys.SpeedY > config.Physics.MaxFallSpeed {
			phys.SpeedY = config.Physics.MaxFallSpeed
		}
	}

	body := col.Body
	dx, dy := phys.SpeedX, phys.SpeedY

	if col.Sensor {
		body.X += dx
		body.Y += dy
		body.Update()
		return
	}

	if dx != 0 {
		if check := body.Check(dx, 0, tags.ResolvSolid); check != nil {
			if solids := check.ObjectsByTags(tags.ResolvSolid); len(solids) > 0 {
				contact := check.ContactWithObject(solids[0])
				dx = contact.X()
				phys.SpeedX = 0
			}
		}
		body.X += dx
	}

	checkDist := dy
	if dy >= 0 {
		checkDist++
	}
	grounded := false
	if check := body.Check(0, checkDist, tags.ResolvSolid); check != nil {
		if solids := check.ObjectsByTags(tags.ResolvSolid); len(solids) > 0 {
			contact := check.ContactWithObject(solids[0])
			body.Y += contact.Y()
			if dy >= 0 {
				grounded = true
			}
			phys.SpeedY = 0
			dy = 0
		}
	}
	if dy != 0 {
		body.Y += dy
	}
	phys.OnGround = grounded
	body.Update()
}

// dispatchContacts recomputes each bound collider's touching set and fires
// enter/exit hooks for the differences. Typed pair events publish once per
// pair, from the lower id's perspective.
func dispatchContacts(e *ecs.ECS, stage *components.StageData) {
	stage.EachInCreationOrder(e.World, func(entry *donburi.Entry) {
		if !entry.HasComponent(components.Collider) {
			return
		}
		col := components.Collider.Get(entry)
		if col.State != components.ColliderBound || col.Body == nil {
			return
		}
		ownID := components.Entity.Get(entry).ID

		now := touchingSet(col.Body, ownID)
		prev := col.Contacts
		col.Contacts = now

		for _, other := range sortedDiff(now, prev) {
			fireContact(e, stage, ownID, other, true)
		}
		for _, other := range sortedDiff(prev, now) {
			fireContact(e, stage, ownID, other, false)
		}
	})
}

// touchingSet returns the owner ids of bodies whose boxes genuinely overlap
// this body. Check(0,0) is cell-granular, so candidates get a precise test.
func touchingSet(body *resolv.Object, ownID string) map[string]struct{} {
	out := map[string]struct{}{}
	check := body.Check(0, 0, tags.ResolvSolid, tags.ResolvSensor)
	if check == nil {
		return out
	}
	for _, obj := range check.Objects {
		id, ok := obj.Data.(string)
		if !ok || id == ownID {
			continue
		}
		if boxesTouch(body, obj) {
			out[id] = struct{}{}
		}
	}
	return out
}

// boxesTouch is inclusive: a body resting flush on another counts as a
// contact even though their interiors do not overlap. The trigger system's
// strict half-open rule does not apply here.
func boxesTouch(a, b *resolv.Object) bool {
	return a.X <= b.X+b.W && b.X <= a.X+a.W &&
		a.Y <= b.Y+b.H && b.Y <= a.Y+a.H
}

// sortedDiff returns the members of a that are absent from b, sorted so the
// callback order is reproducible.
func sortedDiff(a, b map[string]struct{}) []string {
	var out []string
	for id := range a {
		if _, ok := b[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func fireContact(e *ecs.ECS, stage *components.StageData, ownID, otherID string, begin bool) {
	if entry := stage.LookupEntry(e.World, ownID); entry != nil && entry.HasComponent(components.Behavior) {
		inst := components.Behavior.Get(entry).Inst
		if begin {
			inst.CallOnCollisionEnter(otherID)
		} else {
			inst.CallOnCollisionExit(otherID)
		}
	}
	if ownID < otherID || stage.LookupEntry(e.World, otherID) == nil {
		events.Contact.Publish(e.World, events.ContactPayload{
			A:     minStr(ownID, otherID),
			B:     maxStr(ownID, otherID),
			Begin: begin,
		})
	}
}

func minStr(a, b string) string {
	if a < b {
		return a
	}
	return b
}

func maxStr(a, b string) string {
	if a < b {
		return b
	}
	return a
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
