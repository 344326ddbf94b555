package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollowmoor/scenery/components"
	"github.com/hollowmoor/scenery/scene"
)

func colliderDef(id string, x, y, w, h float64, static bool) scene.Object {
	d := def(id, scene.TypeCollider, x, y, w, h)
	d.Collider = &scene.Collider{Shape: scene.ShapeBox, IsStatic: static, Density: 1, Friction: 0.3}
	return d
}

func TestDynamicBodyLandsOnSolid(t *testing.T) {
	e := newTestECS(testScene())
	spawn(e, colliderDef("ground", 0, 100, 100, 10, true))
	spawn(e, colliderDef("crate", 10, 0, 10, 10, false))

	for i := 0; i < 240; i++ {
		UpdatePhysics(e)
		UpdateStage(e)
	}

	entry := entryOf(e, "crate")
	require.NotNil(t, entry)
	phys := components.Physics.Get(entry)
	assert.True(t, phys.OnGround)
	assert.Equal(t, 0.0, phys.SpeedY)

	// Resting on top of the ground, transform pulled from the body.
	tf := components.Transform.Get(entry)
	assert.InDelta(t, 90, tf.Pos.Y, 1.5)
}

func TestContactSetTracksTouch(t *testing.T) {
	e := newTestECS(testScene())
	spawn(e, colliderDef("ground", 0, 100, 100, 10, true))
	spawn(e, colliderDef("crate", 10, 0, 10, 10, false))

	var enters, exits []string
	registerTestBehavior(t, "test/contact", &hookRecorder{
		colEnter: func(otherID string) { enters = append(enters, otherID) },
		colExit:  func(otherID string) { exits = append(exits, otherID) },
	})
	d := colliderDef("probe", 50, 0, 10, 10, false)
	d.Script = "test/contact"
	spawn(e, d)

	for i := 0; i < 240; i++ {
		UpdatePhysics(e)
		UpdateStage(e)
	}
	assert.Equal(t, []string{"ground"}, enters)
	assert.Empty(t, exits)

	// Lift the probe away; its body is dynamic, so move the body itself.
	probe := components.Collider.Get(entryOf(e, "probe"))
	probe.Body.Y = 0
	probe.Body.Update()
	components.Physics.Get(entryOf(e, "probe")).Gravity = false
	UpdatePhysics(e)

	assert.Equal(t, []string{"ground"}, exits)
}

func TestStaticPoseFollowsTransform(t *testing.T) {
	e := newTestECS(testScene())
	spawn(e, colliderDef("wall", 10, 10, 20, 20, true))

	moveTo(e, "wall", 40, 50)
	UpdateStage(e)

	body := components.Collider.Get(entryOf(e, "wall")).Body
	require.NotNil(t, body)
	assert.Equal(t, 40.0, body.X)
	assert.Equal(t, 50.0, body.Y)
}

func TestDynamicTransformFollowsBody(t *testing.T) {
	e := newTestECS(testScene())
	d := colliderDef("crate", 10, 10, 10, 10, false)
	spawn(e, d)
	components.Physics.Get(entryOf(e, "crate")).Gravity = false

	// A direct transform write has no lasting effect: the next update
	// overwrites it from the body.
	moveTo(e, "crate", 70, 70)
	UpdateStage(e)

	tf := components.Transform.Get(entryOf(e, "crate"))
	assert.Equal(t, 10.0, tf.Pos.X)
	assert.Equal(t, 10.0, tf.Pos.Y)
}

func TestSensorMovesWithoutResolution(t *testing.T) {
	e := newTestECS(testScene())
	spawn(e, colliderDef("wall", 20, 0, 10, 100, true))

	d := def("probe", scene.TypeCollider, 0, 40, 10, 10)
	d.Collider = &scene.Collider{Shape: scene.ShapeBox, IsTrigger: true}
	spawn(e, d)

	phys := components.Physics.Get(entryOf(e, "probe"))
	phys.SpeedX = 5
	for i := 0; i < 10; i++ {
		UpdatePhysics(e)
		UpdateStage(e)
	}

	// Passed straight through the wall.
	tf := components.Transform.Get(entryOf(e, "probe"))
	assert.Equal(t, 50.0, tf.Pos.X)
}
