// Package behavior binds script references from scene data to Go-implemented
// behavior tables. A table is registered under its script path; scene objects
// naming that path get a live instance with its hooks invoked at well-defined
// points in the frame. Every hook call is fault-isolated: a panic inside one
// hook is logged and contained, never propagated into the frame loop.
package behavior

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"

	"github.com/hollowmoor/scenery/events"
)

// Context is handed to every hook. Scripts reach the world through the ECS
// and other entities by id via the stage component; holding entries across
// frames is not supported.
type Context struct {
	ECS      *ecs.ECS
	EntityID string
	Params   map[string]any
	Bus      *events.Bus
	Log      *zap.Logger
}

// Table is a user behavior value. Capabilities are discovered through the
// optional interfaces below; a table implements only the hooks it needs.
type Table any

// Factory produces a fresh table per attached instance.
type Factory func() Table

// Optional hook capabilities.
type (
	Loader      interface{ OnLoad(ctx *Context) }
	Initializer interface{ OnInit(ctx *Context) }
	Updater     interface {
		Update(ctx *Context, dt float64)
	}
	Drawer interface {
		Draw(ctx *Context, screen *ebiten.Image)
	}
	CollisionEnterHandler interface {
		OnCollisionEnter(ctx *Context, otherID string)
	}
	CollisionExitHandler interface {
		OnCollisionExit(ctx *Context, otherID string)
	}
	TriggerHandler interface {
		OnTrigger(ctx *Context, targetID, event string)
	}
	EnterHandler interface {
		OnEnter(ctx *Context, targetID string)
	}
	ExitHandler interface {
		OnExit(ctx *Context, targetID string)
	}
	StayHandler interface {
		OnStay(ctx *Context, targetID string)
	}
	InteractHandler interface {
		OnInteract(ctx *Context, actorID string)
	}
	Destroyer interface{ OnDestroy(ctx *Context) }
)

var (
	regMu    sync.RWMutex
	registry = map[string]Factory{}
)

// Register binds a script path to a factory. Later registrations under the
// same path replace earlier ones, which keeps tests independent.
func Register(path string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[path] = f
}

// Registered reports whether a factory exists for path.
func Registered(path string) bool {
	regMu.RLock()
	defer regMu.RUnlock()
	_, ok := registry[path]
	return ok
}

// Paths returns the registered script paths, sorted. Diagnostic tooling only.
func Paths() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(registry))
	for p := range registry {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Instance is a live behavior bound to one entity. A nil Instance is valid
// and every Call* method on it is a no-op, which is how a failed script load
// degrades.
type Instance struct {
	Path  string
	table Table
	ctx   *Context
	log   *zap.Logger
}

// New instantiates the table registered under path. The returned instance has
// not had OnLoad called yet; attachment code drives the lifecycle.
func New(path string, ctx *Context) (*Instance, error) {
	regMu.RLock()
	f, ok := registry[path]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("behavior %q is not registered", path)
	}
	log := ctx.Log
	if log == nil {
		log = zap.NewNop()
		ctx.Log = log
	}
	return &Instance{Path: path, table: f(), ctx: ctx, log: log}, nil
}

// Context returns the instance's bound context.
func (in *Instance) Context() *Context {
	if in == nil {
		return nil
	}
	return in.ctx
}

// guard runs fn and converts a panic into a log entry carrying the offending
// hook name and the owning entity.
func (in *Instance) guard(hook string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			in.log.Error("behavior hook panicked",
				zap.String("script", in.Path),
				zap.String("entity", in.ctx.EntityID),
				zap.String("hook", hook),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}

func (in *Instance) CallOnLoad() {
	if in == nil || in.table == nil {
		return
	}
	if h, ok := in.table.(Loader); ok {
		in.guard("onLoad", func() { h.OnLoad(in.ctx) })
	}
}

func (in *Instance) CallOnInit() {
	if in == nil || in.table == nil {
		return
	}
	if h, ok := in.table.(Initializer); ok {
		in.guard("onInit", func() { h.OnInit(in.ctx) })
	}
}

func (in *Instance) CallUpdate(dt float64) {
	if in == nil || in.table == nil {
		return
	}
	if h, ok := in.table.(Updater); ok {
		in.guard("update", func() { h.Update(in.ctx, dt) })
	}
}

func (in *Instance) CallDraw(screen *ebiten.Image) {
	if in == nil || in.table == nil {
		return
	}
	if h, ok := in.table.(Drawer); ok {
		in.guard("draw", func() { h.Draw(in.ctx, screen) })
	}
}

func (in *Instance) CallOnCollisionEnter(otherID string) {
	if in == nil || in.table == nil {
		return
	}
	if h, ok := in.table.(CollisionEnterHandler); ok {
		in.guard("onCollisionEnter", func() { h.OnCollisionEnter(in.ctx, otherID) })
	}
}

func (in *Instance) CallOnCollisionExit(otherID string) {
	if in == nil || in.table == nil {
		return
	}
	if h, ok := in.table.(CollisionExitHandler); ok {
		in.guard("onCollisionExit", func() { h.OnCollisionExit(in.ctx, otherID) })
	}
}

func (in *Instance) CallOnTrigger(targetID, event string) {
	if in == nil || in.table == nil {
		return
	}
	if h, ok := in.table.(TriggerHandler); ok {
		in.guard("onTrigger", func() { h.OnTrigger(in.ctx, targetID, event) })
	}
}

// CallEvent dispatches the per-kind trigger hook (onEnter, onExit, onStay,
// onInteract) matching event.
func (in *Instance) CallEvent(event, targetID string) {
	if in == nil || in.table == nil {
		return
	}
	switch event {
	case "onEnter":
		if h, ok := in.table.(EnterHandler); ok {
			in.guard(event, func() { h.OnEnter(in.ctx, targetID) })
		}
	case "onExit":
		if h, ok := in.table.(ExitHandler); ok {
			in.guard(event, func() { h.OnExit(in.ctx, targetID) })
		}
	case "onStay":
		if h, ok := in.table.(StayHandler); ok {
			in.guard(event, func() { h.OnStay(in.ctx, targetID) })
		}
	case "onInteract":
		if h, ok := in.table.(InteractHandler); ok {
			in.guard(event, func() { h.OnInteract(in.ctx, targetID) })
		}
	}
}

func (in *Instance) CallOnDestroy() {
	if in == nil || in.table == nil {
		return
	}
	if h, ok := in.table.(Destroyer); ok {
		in.guard("onDestroy", func() { h.OnDestroy(in.ctx) })
	}
}
