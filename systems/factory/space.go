package factory

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/hollowmoor/scenery/archetypes"
	"github.com/hollowmoor/scenery/components"
	"github.com/hollowmoor/scenery/config"
)

// CreateSpace spawns the singleton resolv space sized to the scene.
func CreateSpace(ecs *ecs.ECS, width, height int) *donburi.Entry {
	space := archetypes.Space.Spawn(ecs)
	spaceData := resolv.NewSpace(width, height, config.Physics.CellWidth, config.Physics.CellHeight)
	components.Space.Set(space, spaceData)
	return space
}
