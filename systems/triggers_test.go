package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollowmoor/scenery/components"
	"github.com/hollowmoor/scenery/scene"
	"github.com/hollowmoor/scenery/systems/factory"
)

func triggerDef(id string, x, y, w, h float64, trig scene.Trigger) scene.Object {
	d := def(id, scene.TypeTrigger, x, y, w, h)
	d.Trigger = &trig
	return d
}

func TestEnterExitEdges(t *testing.T) {
	e := newTestECS(testScene())
	spawn(e, triggerDef("t1", 0, 0, 100, 100, scene.Trigger{Event: scene.EventEnter}))
	spawn(e, def("p1", scene.TypeProp, 200, 0, 10, 10))

	enters := 0
	exits := 0
	stageOf(e).Bus.Subscribe("trigger:onEnter", func(string, any) { enters++ })
	stageOf(e).Bus.Subscribe("trigger:onExit", func(string, any) { exits++ })

	// frame 1: no overlap
	step(e)
	assert.Equal(t, 0, enters)

	// frame 2: overlap begins, fires exactly once
	moveTo(e, "p1", 50, 50)
	step(e)
	assert.Equal(t, 1, enters)

	// frame 3: still overlapping, no second fire
	step(e)
	assert.Equal(t, 1, enters)

	// frame 4: overlap ends; an onEnter trigger stays silent
	moveTo(e, "p1", 200, 0)
	step(e)
	assert.Equal(t, 1, enters)
	assert.Equal(t, 0, exits)
}

func TestExitTrigger(t *testing.T) {
	e := newTestECS(testScene())
	spawn(e, triggerDef("t1", 0, 0, 100, 100, scene.Trigger{Event: scene.EventExit}))
	spawn(e, def("p1", scene.TypeProp, 50, 50, 10, 10))

	exits := 0
	stageOf(e).Bus.Subscribe("trigger:onExit", func(string, any) { exits++ })

	step(e) // overlapping, nothing yet
	assert.Equal(t, 0, exits)

	moveTo(e, "p1", 200, 0)
	step(e) // overlap lost, fires once
	assert.Equal(t, 1, exits)

	step(e) // still outside, no repeat
	assert.Equal(t, 1, exits)
}

func TestOneShotSuppression(t *testing.T) {
	e := newTestECS(testScene())
	spawn(e, triggerDef("t1", 0, 0, 100, 100, scene.Trigger{Event: scene.EventEnter, OneShot: true}))
	spawn(e, def("p1", scene.TypeProp, 200, 0, 10, 10))

	fires := 0
	stageOf(e).Bus.Subscribe("trigger:onEnter", func(string, any) { fires++ })

	moveTo(e, "p1", 50, 50)
	step(e)
	moveTo(e, "p1", 200, 0)
	step(e)
	moveTo(e, "p1", 50, 50) // re-enter
	step(e)

	assert.Equal(t, 1, fires)
	assert.True(t, components.Trigger.Get(entryOf(e, "t1")).Fired)
}

func TestCooldownSuppression(t *testing.T) {
	e := newTestECS(testScene())
	spawn(e, triggerDef("t1", 0, 0, 100, 100, scene.Trigger{Event: scene.EventStay, Cooldown: 1.0}))
	spawn(e, def("p1", scene.TypeProp, 50, 50, 10, 10))

	fires := 0
	stageOf(e).Bus.Subscribe("trigger:onStay", func(string, any) { fires++ })

	// First frame fires. The next firing needs the full 1.0s cooldown to
	// decay at the fixed timestep, so within the first half second nothing
	// more happens; over two seconds exactly one more firing lands.
	for i := 0; i < 30; i++ {
		step(e)
	}
	assert.Equal(t, 1, fires)

	for i := 0; i < 90; i++ {
		step(e)
	}
	assert.Equal(t, 2, fires)
}

func TestInteractRequiresProximity(t *testing.T) {
	e := newTestECS(testScene())
	spawn(e, triggerDef("door", 0, 0, 50, 50, scene.Trigger{Event: scene.EventInteract}))
	spawn(e, def("near", scene.TypeProp, 20, 20, 10, 10))
	spawn(e, def("far", scene.TypeProp, 200, 200, 10, 10))

	fires := 0
	stageOf(e).Bus.Subscribe("trigger:onInteract", func(string, any) { fires++ })

	step(e) // establish overlap sets

	RequestInteract(e, "far")
	step(e)
	assert.Equal(t, 0, fires)

	RequestInteract(e, "near")
	step(e)
	assert.Equal(t, 1, fires)
}

func TestInvisibleTargetIgnored(t *testing.T) {
	e := newTestECS(testScene())
	spawn(e, triggerDef("t1", 0, 0, 100, 100, scene.Trigger{Event: scene.EventEnter}))
	d := def("ghost", scene.TypeProp, 50, 50, 10, 10)
	d.Visible = false
	spawn(e, d)

	fires := 0
	stageOf(e).Bus.Subscribe("trigger:onEnter", func(string, any) { fires++ })
	step(e)
	assert.Equal(t, 0, fires)
}

func TestHiddenTriggerStillFires(t *testing.T) {
	// An author-hidden trigger volume is still an active zone; visibility
	// only gates targets.
	e := newTestECS(testScene())
	d := triggerDef("zone", 0, 0, 100, 100, scene.Trigger{Event: scene.EventEnter})
	d.Visible = false
	spawn(e, d)
	spawn(e, def("p1", scene.TypeProp, 50, 50, 10, 10))

	fires := 0
	stageOf(e).Bus.Subscribe("trigger:onEnter", func(string, any) { fires++ })
	step(e)
	assert.Equal(t, 1, fires)
}

func TestActionEndToEnd(t *testing.T) {
	// The full path: validated scene file in, one action publish out.
	raw := map[string]any{
		"id":   "s1",
		"size": map[string]any{"width": 100.0, "height": 100.0},
		"objects": []any{
			map[string]any{
				"id":       "t1",
				"type":     "trigger",
				"position": map[string]any{"x": 0.0, "y": 0.0},
				"size":     map[string]any{"width": 50.0, "height": 50.0},
				"trigger":  map[string]any{"event": "onEnter", "action": "open"},
			},
			map[string]any{
				"id":       "p1",
				"type":     "prop",
				"position": map[string]any{"x": 10.0, "y": 10.0},
				"size":     map[string]any{"width": 5.0, "height": 5.0},
			},
		},
	}
	sc, problems := scene.Validate(raw, "test")
	require.NotNil(t, sc)
	require.Empty(t, problems)

	e := newTestECS(sc)
	for i := range sc.Objects {
		factory.CreateObject(e, &sc.Objects[i])
	}
	factory.InitBehaviors(e)

	opens := 0
	stageOf(e).Bus.Subscribe("action.open", func(string, any) { opens++ })

	step(e)
	assert.Equal(t, 1, opens)
	step(e)
	assert.Equal(t, 1, opens)
}

func TestDispatchOrder(t *testing.T) {
	// Owner behavior hook, then trigger script, then the bus.
	var order []string
	registerTestBehavior(t, "test/owner", &hookRecorder{
		onTrigger: func(targetID, event string) { order = append(order, "behavior") },
	})
	registerTestBehavior(t, "test/trigscript", &hookRecorder{
		onEnter: func(targetID string) { order = append(order, "script") },
	})

	e := newTestECS(testScene())
	d := triggerDef("t1", 0, 0, 100, 100, scene.Trigger{
		Event:  scene.EventEnter,
		Script: "test/trigscript",
		Action: "ping",
	})
	d.Script = "test/owner"
	spawn(e, d)
	spawn(e, def("p1", scene.TypeProp, 50, 50, 10, 10))

	stageOf(e).Bus.Subscribe("action.ping", func(string, any) { order = append(order, "action") })
	stageOf(e).Bus.Subscribe("trigger:onEnter", func(string, any) { order = append(order, "generic") })

	step(e)
	assert.Equal(t, []string{"behavior", "script", "action", "generic"}, order)
}
