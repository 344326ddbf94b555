package components

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/math"

	"github.com/hollowmoor/scenery/scene"
)

// ColliderState tracks the physics-body binding lifecycle. A collider is
// never reused after destruction.
type ColliderState int

const (
	ColliderUninitialized ColliderState = iota
	ColliderBound
	ColliderDestroyed
)

// Material carries the fixture parameters handed to the physics world.
type Material struct {
	Density     float64
	Friction    float64
	Restitution float64
}

// ColliderData binds an entity to an owned physics body and shape. The body
// handle is owned exclusively by this component and released exactly once.
type ColliderData struct {
	Shape    string // scene.ShapeBox, ShapeCircle, ShapePolygon
	Offset   math.Vec2
	IsStatic bool
	Sensor   bool
	Material Material
	Points   []scene.Vec2

	State ColliderState
	Body  *resolv.Object

	// Contacts is the set of owner ids currently touching this collider,
	// maintained by the physics system to derive begin/end events.
	Contacts map[string]struct{}
}

// Bounds returns the collider's world-space box from the sibling transform
// and the collider offset. It is purely geometric: it works whether or not a
// physics body exists, so non-physical triggers can still be queried.
func (c *ColliderData) Bounds(t *TransformData) Rect {
	b := t.WorldBounds()
	b.X += c.Offset.X
	b.Y += c.Offset.Y
	return b
}

var Collider = donburi.NewComponentType[ColliderData]()

// PhysicsData is attached alongside dynamic colliders: per-step velocity
// integrated by the physics system, which owns the pose truth for dynamic
// bodies.
type PhysicsData struct {
	SpeedX  float64
	SpeedY  float64
	Gravity bool

	OnGround bool
}

var Physics = donburi.NewComponentType[PhysicsData]()
