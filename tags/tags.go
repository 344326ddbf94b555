package tags

import "github.com/yohamta/donburi"

// One donburi tag per descriptor type, mirroring the scene file's closed
// type enumeration.
var (
	Prop     = donburi.NewTag().SetName("Prop")
	Trigger  = donburi.NewTag().SetName("Trigger")
	Collider = donburi.NewTag().SetName("Collider")
	Spawn    = donburi.NewTag().SetName("Spawn")
	Light    = donburi.NewTag().SetName("Light")
	Text     = donburi.NewTag().SetName("Text")
)

// Resolv tags attached to physics bodies.
const (
	ResolvSolid  = "solid"
	ResolvSensor = "sensor"
)
