// Package scripts holds the built-in behavior tables shipped with the demo
// content. Each registers under the path scene files reference; importing
// the package is what makes them resolvable.
package scripts

import (
	"go.uber.org/zap"

	"github.com/hollowmoor/scenery/behavior"
	"github.com/hollowmoor/scenery/components"
	"github.com/hollowmoor/scenery/events"
	"github.com/hollowmoor/scenery/systems"
)

func init() {
	behavior.Register("scripts/patrol", func() behavior.Table { return &patrol{} })
	behavior.Register("scripts/door", func() behavior.Table { return &door{} })
	behavior.Register("scripts/plate", func() behavior.Table { return &plate{} })
	behavior.Register("scripts/follow_cam", func() behavior.Table { return &followCam{} })
}

// patrol walks its entity back and forth over a horizontal range. Params:
// "speed" (world units per step) and "range" (distance before turning).
type patrol struct {
	originX float64
	speed   float64
	span    float64
	dir     float64
}

func (p *patrol) OnInit(ctx *behavior.Context) {
	p.speed = paramFloat(ctx.Params, "speed", 1)
	p.span = paramFloat(ctx.Params, "range", 64)
	p.dir = 1

	stage := mustStage(ctx)
	if stage == nil {
		return
	}
	if entry := stage.LookupEntry(ctx.ECS.World, ctx.EntityID); entry != nil {
		p.originX = components.Transform.Get(entry).Pos.X
	}
}

func (p *patrol) Update(ctx *behavior.Context, dt float64) {
	stage := mustStage(ctx)
	if stage == nil {
		return
	}
	entry := stage.LookupEntry(ctx.ECS.World, ctx.EntityID)
	if entry == nil {
		return
	}

	if entry.HasComponent(components.Physics) {
		phys := components.Physics.Get(entry)
		phys.SpeedX = p.speed * p.dir
		body := components.Collider.Get(entry).Body
		if body != nil && (body.X > p.originX+p.span || body.X < p.originX-p.span) {
			p.dir = -p.dir
		}
		return
	}

	tf := components.Transform.Get(entry)
	tf.Pos.X += p.speed * p.dir
	if tf.Pos.X > p.originX+p.span || tf.Pos.X < p.originX-p.span {
		p.dir = -p.dir
	}
}

// door hides its entity when the configured action fires and never comes
// back. Params: "action" (bus action name, default "open").
type door struct {
	token events.Token
}

func (d *door) OnInit(ctx *behavior.Context) {
	action := paramString(ctx.Params, "action", "open")
	d.token = ctx.Bus.Subscribe("action."+action, func(_ string, _ any) {
		stage := mustStage(ctx)
		if stage == nil {
			return
		}
		if entry := stage.LookupEntry(ctx.ECS.World, ctx.EntityID); entry != nil {
			components.Entity.Get(entry).Visible = false
			if entry.HasComponent(components.Collider) {
				ctx.Log.Info("door opened", zap.String("entity", ctx.EntityID))
			}
		}
	})
}

func (d *door) OnDestroy(ctx *behavior.Context) {
	ctx.Bus.Unsubscribe(d.token)
}

// plate is a trigger-attached script logging enter and exit edges.
type plate struct{}

func (plate) OnEnter(ctx *behavior.Context, targetID string) {
	ctx.Log.Info("plate pressed",
		zap.String("plate", ctx.EntityID),
		zap.String("by", targetID))
}

func (plate) OnExit(ctx *behavior.Context, targetID string) {
	ctx.Log.Info("plate released",
		zap.String("plate", ctx.EntityID),
		zap.String("by", targetID))
}

// followCam locks the camera onto its own entity.
type followCam struct{}

func (followCam) OnInit(ctx *behavior.Context) {
	systems.FollowEntity(ctx.ECS, ctx.EntityID)
}

func mustStage(ctx *behavior.Context) *components.StageData {
	entry, ok := components.Stage.First(ctx.ECS.World)
	if !ok {
		return nil
	}
	return components.Stage.Get(entry)
}

func paramFloat(params map[string]any, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

func paramString(params map[string]any, key, def string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}
