package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorder struct {
	calls  []string
	params map[string]any
}

func (r *recorder) OnLoad(ctx *Context) {
	r.calls = append(r.calls, "onLoad")
	r.params = ctx.Params
}
func (r *recorder) OnInit(*Context)          { r.calls = append(r.calls, "onInit") }
func (r *recorder) Update(*Context, float64) { r.calls = append(r.calls, "update") }
func (r *recorder) OnTrigger(_ *Context, tgt, ev string) {
	r.calls = append(r.calls, "onTrigger:"+ev+":"+tgt)
}
func (r *recorder) OnDestroy(*Context) { r.calls = append(r.calls, "onDestroy") }

type panicky struct{ updates int }

func (p *panicky) Update(*Context, float64) {
	p.updates++
	panic("broken script")
}

func TestRegistryUnknownPath(t *testing.T) {
	_, err := New("scripts/missing.lua", &Context{})
	assert.Error(t, err)
	assert.False(t, Registered("scripts/missing.lua"))
}

func TestLifecycleOrderAndParams(t *testing.T) {
	rec := &recorder{}
	Register("scripts/rec.lua", func() Table { return rec })
	require.True(t, Registered("scripts/rec.lua"))

	params := map[string]any{"speed": 2.5}
	inst, err := New("scripts/rec.lua", &Context{EntityID: "e1", Params: params, Log: zap.NewNop()})
	require.NoError(t, err)

	inst.CallOnLoad()
	inst.CallOnInit()
	inst.CallUpdate(1.0 / 60.0)
	inst.CallOnTrigger("p1", "onEnter")
	inst.CallOnDestroy()

	assert.Equal(t, []string{"onLoad", "onInit", "update", "onTrigger:onEnter:p1", "onDestroy"}, rec.calls)
	assert.Equal(t, params, rec.params)
}

func TestMissingHooksAreNoOps(t *testing.T) {
	Register("scripts/empty.lua", func() Table { return struct{}{} })
	inst, err := New("scripts/empty.lua", &Context{EntityID: "e1", Log: zap.NewNop()})
	require.NoError(t, err)

	// None of these may panic or fail.
	inst.CallOnLoad()
	inst.CallOnInit()
	inst.CallUpdate(0.016)
	inst.CallDraw(nil)
	inst.CallOnCollisionEnter("x")
	inst.CallOnCollisionExit("x")
	inst.CallOnTrigger("x", "onEnter")
	inst.CallEvent("onStay", "x")
	inst.CallOnDestroy()
}

func TestNilInstanceIsInert(t *testing.T) {
	var inst *Instance
	inst.CallOnLoad()
	inst.CallUpdate(0.016)
	inst.CallOnDestroy()
}

func TestPanicIsContainedAndRetried(t *testing.T) {
	p := &panicky{}
	Register("scripts/panic.lua", func() Table { return p })
	inst, err := New("scripts/panic.lua", &Context{EntityID: "e1", Log: zap.NewNop()})
	require.NoError(t, err)

	// The hook panics on every call; the caller must survive each one and
	// the hook must still be invoked on subsequent frames.
	inst.CallUpdate(0.016)
	inst.CallUpdate(0.016)
	inst.CallUpdate(0.016)
	assert.Equal(t, 3, p.updates)
}

func TestCallEventDispatch(t *testing.T) {
	type events struct {
		got []string
	}
	ev := &events{}
	Register("scripts/events.lua", func() Table {
		return &eventTable{sink: &ev.got}
	})
	inst, err := New("scripts/events.lua", &Context{EntityID: "t1", Log: zap.NewNop()})
	require.NoError(t, err)

	inst.CallEvent("onEnter", "a")
	inst.CallEvent("onExit", "b")
	inst.CallEvent("onStay", "c")
	inst.CallEvent("onInteract", "d")
	inst.CallEvent("bogus", "e")

	assert.Equal(t, []string{"enter:a", "exit:b", "stay:c", "interact:d"}, ev.got)
}

type eventTable struct{ sink *[]string }

func (e *eventTable) OnEnter(_ *Context, id string)    { *e.sink = append(*e.sink, "enter:"+id) }
func (e *eventTable) OnExit(_ *Context, id string)     { *e.sink = append(*e.sink, "exit:"+id) }
func (e *eventTable) OnStay(_ *Context, id string)     { *e.sink = append(*e.sink, "stay:"+id) }
func (e *eventTable) OnInteract(_ *Context, id string) { *e.sink = append(*e.sink, "interact:"+id) }
