package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"

	"github.com/hollowmoor/scenery/components"
	"github.com/hollowmoor/scenery/scene"
)

func TestQueueDestroyFlushesOnce(t *testing.T) {
	destroys := 0
	registerTestBehavior(t, "test/destroyable", &hookRecorder{
		onDestroy: func() { destroys++ },
	})

	e := newTestECS(testScene())
	d := colliderDef("crate", 10, 10, 10, 10, false)
	d.Script = "test/destroyable"
	spawn(e, d)

	stage := stageOf(e)
	require.Equal(t, 1, stage.Count())

	// Queueing twice destroys once.
	stage.QueueDestroy("crate")
	stage.QueueDestroy("crate")
	UpdateStage(e)

	assert.Equal(t, 1, destroys)
	assert.Equal(t, 0, stage.Count())
	assert.Nil(t, stage.LookupEntry(e.World, "crate"))

	// The space no longer knows the body.
	spaceEntry, ok := components.Space.First(e.World)
	require.True(t, ok)
	assert.Empty(t, components.Space.Get(spaceEntry).Objects())
}

func TestDestroyedEntityStopsParticipating(t *testing.T) {
	e := newTestECS(testScene())
	spawn(e, def("p1", scene.TypeProp, 50, 50, 10, 10))
	d := def("t1", scene.TypeTrigger, 0, 0, 100, 100)
	d.Trigger = &scene.Trigger{Event: scene.EventEnter}
	spawn(e, d)

	fires := 0
	stageOf(e).Bus.Subscribe("trigger:onEnter", func(string, any) { fires++ })

	// Queued-for-destroy targets are excluded the same frame.
	stageOf(e).QueueDestroy("p1")
	UpdateTriggers(e)
	assert.Equal(t, 0, fires)
}

func TestTeardownDestroysEverything(t *testing.T) {
	destroys := 0
	registerTestBehavior(t, "test/teardown", &hookRecorder{
		onDestroy: func() { destroys++ },
	})

	e := newTestECS(testScene())
	for _, id := range []string{"a", "b", "c"} {
		d := def(id, scene.TypeProp, 0, 0, 10, 10)
		d.Script = "test/teardown"
		spawn(e, d)
	}

	Teardown(e)
	assert.Equal(t, 3, destroys)
	assert.Equal(t, 0, stageOf(e).Count())
}

func TestBehaviorFaultIsolation(t *testing.T) {
	updates := 0
	registerTestBehavior(t, "test/panics", &hookRecorder{
		update: func(float64) { panic("boom") },
	})
	registerTestBehavior(t, "test/counts", &hookRecorder{
		update: func(float64) { updates++ },
	})

	e := newTestECS(testScene())
	d1 := def("bad", scene.TypeProp, 0, 0, 10, 10)
	d1.Script = "test/panics"
	spawn(e, d1)
	d2 := def("good", scene.TypeProp, 20, 20, 10, 10)
	d2.Script = "test/counts"
	spawn(e, d2)

	// The panicking script is contained and its neighbor still runs.
	assert.NotPanics(t, func() { UpdateBehaviors(e) })
	assert.Equal(t, 1, updates)
}

func TestDrawOrderIsDeterministic(t *testing.T) {
	e := newTestECS(testScene())
	mk := func(id string, z float64) {
		d := def(id, scene.TypeProp, 0, 0, 10, 10)
		d.ZIndex = z
		spawn(e, d)
	}
	mk("c", 1)
	mk("a", 0)
	mk("b", 1)

	stage := stageOf(e)
	stage.EnsureSorted(e.World)

	var order []string
	stage.EachOrdered(e.World, func(entry *donburi.Entry) {
		order = append(order, components.Entity.Get(entry).ID)
	})
	// Depth first, then creation order breaks the z tie.
	assert.Equal(t, []string{"a", "c", "b"}, order)
}
