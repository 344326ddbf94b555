package factory

import (
	"image/color"

	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	dmath "github.com/yohamta/donburi/features/math"
	"go.uber.org/zap"

	"github.com/hollowmoor/scenery/archetypes"
	"github.com/hollowmoor/scenery/assets"
	"github.com/hollowmoor/scenery/behavior"
	"github.com/hollowmoor/scenery/components"
	"github.com/hollowmoor/scenery/fonts"
	"github.com/hollowmoor/scenery/scene"
	"github.com/hollowmoor/scenery/tags"
)

// CreateObject builds one entity from a normalized descriptor: the base
// identity and pose always, then one component per optional block. A failing
// block is logged and left inert; it never blocks the rest of the entity or
// the rest of the scene.
func CreateObject(e *ecs.ECS, def *scene.Object) *donburi.Entry {
	stageEntry, ok := components.Stage.First(e.World)
	if !ok {
		return nil
	}
	stage := components.Stage.Get(stageEntry)

	if _, dup := stage.Lookup(def.ID); dup {
		stage.Log.Error("entity id already live, descriptor skipped",
			zap.String("id", def.ID))
		return nil
	}

	var extra []donburi.IComponentType
	if def.Type != scene.TypeText {
		extra = append(extra, components.Sprite)
	}
	if def.Text != nil {
		extra = append(extra, components.Text)
	}
	if def.Collider != nil {
		extra = append(extra, components.Collider)
		if !def.Collider.IsStatic {
			extra = append(extra, components.Physics)
		}
	}
	if def.Trigger != nil {
		extra = append(extra, components.Trigger)
	}
	if def.Script != "" {
		extra = append(extra, components.Behavior)
	}

	entry := archetypes.ForType(def.Type).Spawn(e, extra...)

	tagSet := make(map[string]struct{}, len(def.Tags))
	for _, t := range def.Tags {
		tagSet[t] = struct{}{}
	}
	components.Entity.SetValue(entry, components.EntityData{
		ID:      def.ID,
		Type:    def.Type,
		Name:    def.Name,
		Tags:    tagSet,
		Visible: def.Visible,
		Locked:  def.Locked,
		Seq:     stage.NextSeq(),
	})
	components.Transform.SetValue(entry, components.TransformData{
		Pos:      dmath.Vec2{X: def.Position.X, Y: def.Position.Y},
		Rotation: def.Rotation,
		Scale:    dmath.Vec2{X: def.Scale.X, Y: def.Scale.Y},
		Size:     dmath.Vec2{X: def.Size.Width, Y: def.Size.Height},
		Z:        def.ZIndex,
	})
	stage.Register(def.ID, entry.Entity())

	if entry.HasComponent(components.Sprite) {
		initSprite(entry, def)
	}
	if def.Text != nil {
		initText(entry, def)
	}
	if def.Collider != nil {
		initCollider(e, entry, stage, def)
	}
	if def.Trigger != nil {
		initTrigger(e, entry, stage, def)
	}
	if def.Script != "" {
		initBehavior(e, entry, stage, def)
	}
	return entry
}

func initSprite(entry *donburi.Entry, def *scene.Object) {
	data := components.SpriteData{
		Color:   scene.ParseColor(def.Color, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
		Opacity: def.Opacity,
	}
	if def.Sprite != "" {
		img := assets.Load(def.Sprite)
		data.Image = img
		data.Placeholder = assets.IsPlaceholder(img)
	}
	components.Sprite.SetValue(entry, data)
}

func initText(entry *donburi.Entry, def *scene.Object) {
	t := def.Text
	components.Text.SetValue(entry, components.TextData{
		Content:    t.Content,
		FontFamily: t.FontFamily,
		FontSize:   t.FontSize,
		Align:      t.Align,
		LineHeight: t.LineHeight,
		Face:       fonts.Face(t.FontFamily, t.FontSize),
	})
}

func initCollider(e *ecs.ECS, entry *donburi.Entry, stage *components.StageData, def *scene.Object) {
	c := def.Collider
	data := components.ColliderData{
		Shape:    c.Shape,
		Offset:   dmath.Vec2{X: c.Offset.X, Y: c.Offset.Y},
		IsStatic: c.IsStatic,
		Sensor:   c.IsTrigger,
		Material: components.Material{
			Density:     c.Density,
			Friction:    c.Friction,
			Restitution: c.Restitution,
		},
		Points:   append([]scene.Vec2(nil), c.Points...),
		Contacts: map[string]struct{}{},
	}

	spaceEntry, ok := components.Space.First(e.World)
	if !ok {
		stage.Log.Error("no collision space, collider left inert",
			zap.String("id", def.ID))
		components.Collider.SetValue(entry, data)
		return
	}

	tf := components.Transform.Get(entry)
	b := data.Bounds(tf)

	tag := tags.ResolvSolid
	if data.Sensor {
		tag = tags.ResolvSensor
	}
	obj := resolv.NewObject(b.X, b.Y, b.W, b.H, tag)
	obj.SetShape(shapeFor(c, b.W, b.H))
	obj.Data = def.ID // id backlink, never an entry

	components.Space.Get(spaceEntry).Add(obj)
	data.Body = obj
	data.State = components.ColliderBound
	components.Collider.SetValue(entry, data)

	if !c.IsStatic {
		components.Physics.SetValue(entry, components.PhysicsData{
			Gravity: !c.IsTrigger,
		})
	}
}

// shapeFor builds the resolv shape for a collider block. Circles are
// inscribed in the body box; polygons with a bad point list already fell back
// to box during validation.
func shapeFor(c *scene.Collider, w, h float64) resolv.IShape {
	switch c.Shape {
	case scene.ShapeCircle:
		r := w
		if h < r {
			r = h
		}
		return resolv.NewCircle(w/2, h/2, r/2)
	case scene.ShapePolygon:
		if len(c.Points) >= 3 {
			pts := make([]float64, 0, len(c.Points)*2)
			for _, p := range c.Points {
				pts = append(pts, p.X, p.Y)
			}
			return resolv.NewConvexPolygon(0, 0, pts...)
		}
	}
	return resolv.NewRectangle(0, 0, w, h)
}

func initTrigger(e *ecs.ECS, entry *donburi.Entry, stage *components.StageData, def *scene.Object) {
	t := def.Trigger
	data := components.TriggerData{
		Event:    t.Event,
		Script:   t.Script,
		Action:   t.Action,
		Cooldown: t.Cooldown,
		OneShot:  t.OneShot,
		Overlaps: map[string]struct{}{},
	}
	if t.Script != "" {
		inst, err := newInstance(e, stage, def.ID, t.Script, nil)
		if err != nil {
			stage.Log.Warn("trigger script failed to load",
				zap.String("id", def.ID),
				zap.String("script", t.Script),
				zap.Error(err))
		}
		data.Inst = inst
	}
	components.Trigger.SetValue(entry, data)
	data.Inst.CallOnLoad()
}

func initBehavior(e *ecs.ECS, entry *donburi.Entry, stage *components.StageData, def *scene.Object) {
	inst, err := newInstance(e, stage, def.ID, def.Script, def.ScriptParams)
	if err != nil {
		stage.Log.Warn("behavior script failed to load",
			zap.String("id", def.ID),
			zap.String("script", def.Script),
			zap.Error(err))
	}
	components.Behavior.SetValue(entry, components.BehaviorData{
		Path:   def.Script,
		Params: def.ScriptParams,
		Inst:   inst,
	})
	inst.CallOnLoad()
}

func newInstance(e *ecs.ECS, stage *components.StageData, id, path string, params map[string]any) (*behavior.Instance, error) {
	return behavior.New(path, &behavior.Context{
		ECS:      e,
		EntityID: id,
		Params:   params,
		Bus:      stage.Bus,
		Log:      stage.Log,
	})
}

// InitBehaviors runs the OnInit pass: after every entity of a freshly loaded
// scene exists, each behavior and trigger script is initialized in creation
// order, then the scene-level scripts.
func InitBehaviors(e *ecs.ECS) {
	stageEntry, ok := components.Stage.First(e.World)
	if !ok {
		return
	}
	stage := components.Stage.Get(stageEntry)
	stage.EachInCreationOrder(e.World, func(entry *donburi.Entry) {
		if entry.HasComponent(components.Behavior) {
			components.Behavior.Get(entry).Inst.CallOnInit()
		}
		if entry.HasComponent(components.Trigger) {
			components.Trigger.Get(entry).Inst.CallOnInit()
		}
	})
	for _, inst := range stage.SceneScripts {
		inst.CallOnInit()
	}
}
