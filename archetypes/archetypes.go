package archetypes

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/hollowmoor/scenery/components"
	cfg "github.com/hollowmoor/scenery/config"
	"github.com/hollowmoor/scenery/scene"
	"github.com/hollowmoor/scenery/tags"
)

// Every scene entity carries identity and a pose; the factory attaches the
// rest of the component set from the descriptor's optional blocks.
var (
	Prop     = newArchetype(tags.Prop, components.Entity, components.Transform)
	Trigger  = newArchetype(tags.Trigger, components.Entity, components.Transform)
	Collider = newArchetype(tags.Collider, components.Entity, components.Transform)
	Spawn    = newArchetype(tags.Spawn, components.Entity, components.Transform)
	Light    = newArchetype(tags.Light, components.Entity, components.Transform)
	Text     = newArchetype(tags.Text, components.Entity, components.Transform)

	Stage  = newArchetype(components.Stage)
	Space  = newArchetype(components.Space)
	Camera = newArchetype(components.Camera)
)

// ForType returns the archetype matching a descriptor type.
func ForType(typ string) *archetype {
	switch typ {
	case scene.TypeTrigger:
		return Trigger
	case scene.TypeCollider:
		return Collider
	case scene.TypeSpawn:
		return Spawn
	case scene.TypeLight:
		return Light
	case scene.TypeText:
		return Text
	default:
		return Prop
	}
}

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.Default,
		append(a.components, cs...)...,
	))
	return e
}
