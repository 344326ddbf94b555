package scene

import (
	"fmt"
	"math"
	"sort"

	"github.com/hollowmoor/scenery/pathutil"
)

var objectTypes = map[string]bool{
	TypeProp:     true,
	TypeTrigger:  true,
	TypeCollider: true,
	TypeSpawn:    true,
	TypeLight:    true,
	TypeText:     true,
}

var triggerEvents = map[string]bool{
	EventEnter:    true,
	EventExit:     true,
	EventStay:     true,
	EventInteract: true,
}

var colliderShapes = map[string]bool{
	ShapeBox:     true,
	ShapeCircle:  true,
	ShapePolygon: true,
}

var textAligns = map[string]bool{
	"left":   true,
	"center": true,
	"right":  true,
}

// Validate checks raw scene data and produces a fully normalized Scene. A
// scene-level violation (missing id, bad size, objects not a list) is fatal
// and short-circuits: the result is nil. Object-level problems follow the
// validate-default-continue policy so one pass surfaces every actionable
// error: malformed objects are dropped, recoverable ones are defaulted, and
// the rest of the scene keeps validating. Callers must treat any fatal
// problem as "do not activate this scene".
func Validate(raw map[string]any, source string) (*Scene, []Problem) {
	v := &validator{source: source}

	sc := &Scene{}

	sc.ID = v.requireString(raw, "id", "")
	if w, h, ok := v.requireSize(raw); ok {
		sc.Size = Size{Width: w, Height: h}
	}
	rawObjects, objectsOK := raw["objects"].([]any)
	if _, present := raw["objects"]; !present || !objectsOK {
		v.fatal("", "objects", "required field must be a list")
	}
	if len(Fatals(v.problems)) > 0 {
		// Scene-level structure is broken; per-object validation would
		// report noise against a scene that can never load.
		return nil, v.problems
	}

	sc.Name = stringOr(raw, "name", sc.ID)
	sc.Version = int(numberOr(raw, "version", 1))
	sc.LastModified = stringOr(raw, "lastModified", "")
	sc.BackgroundColor = stringOr(raw, "backgroundColor", "#000000")
	sc.Background = v.safePath("", "background", stringOr(raw, "background", ""))
	sc.Grid = v.normalizeGrid(raw)
	sc.Camera = v.normalizeCamera(raw)
	sc.Scripts = v.normalizeScripts(raw)

	seen := map[string]bool{}
	for i, entry := range rawObjects {
		rawObj, ok := entry.(map[string]any)
		if !ok {
			v.fatal("", fmt.Sprintf("objects[%d]", i), "object descriptor must be a record")
			continue
		}
		obj, keep := v.normalizeObject(rawObj, i, seen, sc.Size)
		if keep {
			sc.Objects = append(sc.Objects, obj)
		}
	}

	// Stable, reproducible creation/draw order independent of input
	// ordering quirks: (zIndex, id), with the original descriptor position
	// preserved by sort stability. Ids are unique past this point, so the
	// order depends only on (zIndex, id) pairs, not input shuffling.
	sort.SliceStable(sc.Objects, func(i, j int) bool {
		a, b := &sc.Objects[i], &sc.Objects[j]
		if a.ZIndex != b.ZIndex {
			return a.ZIndex < b.ZIndex
		}
		return a.ID < b.ID
	})
	for i := range sc.Objects {
		sc.Objects[i].seq = i
	}

	return sc, v.problems
}

type validator struct {
	source   string
	problems []Problem
}

func (v *validator) fatal(objID, field, msg string) {
	v.problems = append(v.problems, Problem{
		Severity: SeverityFatal, Source: v.source, ObjectID: objID, Field: field, Msg: msg,
	})
}

func (v *validator) warn(objID, field, msg string) {
	v.problems = append(v.problems, Problem{
		Severity: SeverityWarning, Source: v.source, ObjectID: objID, Field: field, Msg: msg,
	})
}

func (v *validator) requireString(m map[string]any, field, objID string) string {
	s, ok := m[field].(string)
	if !ok || s == "" {
		v.fatal(objID, field, "required field must be a non-empty string")
		return ""
	}
	return s
}

func (v *validator) requireSize(raw map[string]any) (float64, float64, bool) {
	size, ok := raw["size"].(map[string]any)
	if !ok {
		v.fatal("", "size", "required field must be a record with width and height")
		return 0, 0, false
	}
	w, wok := number(size["width"])
	h, hok := number(size["height"])
	if !wok || !hok || !finitePositive(w) || !finitePositive(h) {
		v.fatal("", "size", "width and height must be finite positive numbers")
		return 0, 0, false
	}
	return w, h, true
}

// safePath applies the path-safety rule: unsafe references are fatal, and the
// field is cleared so a diagnostic consumer of the normalized scene never
// sees the rejected value.
func (v *validator) safePath(objID, field, ref string) string {
	if ref == "" {
		return ""
	}
	if !pathutil.Safe(ref) {
		v.fatal(objID, field, fmt.Sprintf("unsafe path reference %q", ref))
		return ""
	}
	return ref
}

func (v *validator) normalizeGrid(raw map[string]any) Grid {
	g := Grid{Enabled: false, Size: 32, Snap: false, Color: "#444444", Opacity: 0.5}
	rawGrid, ok := raw["grid"].(map[string]any)
	if !ok {
		return g
	}
	g.Enabled = boolOr(rawGrid, "enabled", g.Enabled)
	g.Snap = boolOr(rawGrid, "snap", g.Snap)
	g.Color = stringOr(rawGrid, "color", g.Color)
	g.Opacity = numberOr(rawGrid, "opacity", g.Opacity)
	if size := numberOr(rawGrid, "size", g.Size); finitePositive(size) {
		g.Size = size
	} else {
		v.warn("", "grid.size", "must be a finite positive number, using default")
	}
	return g
}

func (v *validator) normalizeCamera(raw map[string]any) Camera {
	c := Camera{DefaultZoom: 1}
	rawCam, ok := raw["camera"].(map[string]any)
	if !ok {
		return c
	}
	c.DefaultPosition = vec2Or(rawCam, "defaultPosition", Vec2{})
	if zoom := numberOr(rawCam, "defaultZoom", 1); finitePositive(zoom) {
		c.DefaultZoom = zoom
	} else {
		v.warn("", "camera.defaultZoom", "must be a finite positive number, using 1")
	}
	if rawBounds, ok := rawCam["bounds"].(map[string]any); ok {
		b := Bounds{
			X:      numberOr(rawBounds, "x", 0),
			Y:      numberOr(rawBounds, "y", 0),
			Width:  numberOr(rawBounds, "width", 0),
			Height: numberOr(rawBounds, "height", 0),
		}
		if finitePositive(b.Width) && finitePositive(b.Height) {
			c.Bounds = &b
		} else {
			v.warn("", "camera.bounds", "width and height must be finite positive numbers, ignoring bounds")
		}
	}
	return c
}

func (v *validator) normalizeScripts(raw map[string]any) []string {
	rawScripts, ok := raw["scripts"].([]any)
	if !ok {
		return nil
	}
	var out []string
	for i, entry := range rawScripts {
		ref, ok := entry.(string)
		if !ok {
			v.fatal("", fmt.Sprintf("scripts[%d]", i), "script reference must be a string")
			continue
		}
		if ref = v.safePath("", fmt.Sprintf("scripts[%d]", i), ref); ref != "" {
			out = append(out, ref)
		}
	}
	return out
}

// normalizeObject validates one descriptor. The second result reports whether
// the object survives: structural violations (missing id/type/position/size,
// unknown type, duplicate id) drop the object; recoverable violations record
// a problem, fall back to a safe default and keep it.
func (v *validator) normalizeObject(raw map[string]any, idx int, seen map[string]bool, sceneSize Size) (Object, bool) {
	o := Object{seq: idx}

	id, _ := raw["id"].(string)
	if id == "" {
		v.fatal("", fmt.Sprintf("objects[%d].id", idx), "required field must be a non-empty string")
		return o, false
	}
	o.ID = id

	typ, _ := raw["type"].(string)
	if typ == "" {
		v.fatal(id, "type", "required field must be a non-empty string")
		return o, false
	}
	if !objectTypes[typ] {
		v.warn(id, "type", fmt.Sprintf("unsupported object type %q, object dropped", typ))
		return o, false
	}
	o.Type = typ

	if seen[id] {
		v.fatal(id, "id", "duplicate object id")
		return o, false
	}
	seen[id] = true

	pos, ok := requireVec2(raw, "position")
	if !ok {
		v.fatal(id, "position", "required field must be a record with numeric x and y")
		return o, false
	}
	o.Position = pos

	size, ok := requireSizeField(raw, "size")
	if !ok {
		v.fatal(id, "size", "required field must be a record with numeric width and height")
		return o, false
	}
	o.Size = size

	if pos.X < 0 || pos.Y < 0 || pos.X > sceneSize.Width || pos.Y > sceneSize.Height {
		v.warn(id, "position", "object placed outside scene bounds")
	}

	o.Name = stringOr(raw, "name", id)
	o.Rotation = numberOr(raw, "rotation", 0)
	o.Scale = vec2Or(raw, "scale", Vec2{X: 1, Y: 1})
	o.Opacity = clamp01(numberOr(raw, "opacity", 1))
	o.ZIndex = numberOr(raw, "zIndex", 0)
	o.Color = stringOr(raw, "color", "")
	o.Sprite = v.safePath(id, "sprite", stringOr(raw, "sprite", ""))
	o.Script = v.safePath(id, "script", stringOr(raw, "script", ""))
	o.Visible = boolOr(raw, "visible", true)
	o.Locked = boolOr(raw, "locked", false)

	if params, ok := raw["scriptParams"].(map[string]any); ok && len(params) > 0 {
		o.ScriptParams = params
	}
	if rawTags, ok := raw["tags"].([]any); ok {
		for _, t := range rawTags {
			if s, ok := t.(string); ok && s != "" {
				o.Tags = append(o.Tags, s)
			}
		}
	}

	if rawCollider, ok := raw["collider"].(map[string]any); ok {
		o.Collider = v.normalizeCollider(rawCollider, id)
	}
	if rawTrigger, ok := raw["trigger"].(map[string]any); ok {
		o.Trigger = v.normalizeTrigger(rawTrigger, id)
	}
	if rawText, ok := raw["text"].(map[string]any); ok {
		o.Text = v.normalizeText(rawText, id)
	}

	return o, true
}

func (v *validator) normalizeCollider(raw map[string]any, objID string) *Collider {
	c := &Collider{
		Shape:    ShapeBox,
		IsStatic: true,
		Density:  1,
		Friction: 0.3,
	}
	shape := stringOr(raw, "shape", ShapeBox)
	if !colliderShapes[shape] {
		// Recorded as fatal, but the object continues with the safe
		// default so the rest of the scene still surfaces its errors.
		v.fatal(objID, "collider.shape", fmt.Sprintf("unknown shape %q, defaulting to box", shape))
		shape = ShapeBox
	}
	c.Shape = shape
	c.Offset = vec2Or(raw, "offset", Vec2{})
	c.IsStatic = boolOr(raw, "isStatic", true)
	c.IsTrigger = boolOr(raw, "isTrigger", false)
	c.Density = numberOr(raw, "density", 1)
	c.Friction = numberOr(raw, "friction", 0.3)
	c.Restitution = numberOr(raw, "restitution", 0)

	if rawPoints, ok := raw["points"].([]any); ok {
		for _, rp := range rawPoints {
			pm, ok := rp.(map[string]any)
			if !ok {
				continue
			}
			x, xok := number(pm["x"])
			y, yok := number(pm["y"])
			if xok && yok {
				c.Points = append(c.Points, Vec2{X: x, Y: y})
			}
		}
	}
	if c.Shape == ShapePolygon && len(c.Points) < 3 {
		v.warn(objID, "collider.points", "polygon needs at least 3 points, falling back to box")
		c.Shape = ShapeBox
		c.Points = nil
	}
	return c
}

func (v *validator) normalizeTrigger(raw map[string]any, objID string) *Trigger {
	t := &Trigger{Event: EventEnter}
	event := stringOr(raw, "event", EventEnter)
	if !triggerEvents[event] {
		v.fatal(objID, "trigger.event", fmt.Sprintf("unknown event %q, defaulting to onEnter", event))
		event = EventEnter
	}
	t.Event = event
	t.Script = v.safePath(objID, "trigger.script", stringOr(raw, "script", ""))
	t.Action = stringOr(raw, "action", "")
	t.OneShot = boolOr(raw, "oneShot", false)
	if cd := numberOr(raw, "cooldown", 0); cd >= 0 && !math.IsInf(cd, 0) && !math.IsNaN(cd) {
		t.Cooldown = cd
	} else {
		v.warn(objID, "trigger.cooldown", "must be a finite non-negative number, using 0")
	}
	return t
}

func (v *validator) normalizeText(raw map[string]any, objID string) *Text {
	t := &Text{FontSize: 16, Align: "left", LineHeight: 1.2}
	t.Content = stringOr(raw, "content", "")
	t.FontFamily = v.safePath(objID, "text.fontFamily", stringOr(raw, "fontFamily", ""))
	if size := numberOr(raw, "fontSize", 16); finitePositive(size) {
		t.FontSize = size
	} else {
		v.warn(objID, "text.fontSize", "must be a finite positive number, using 16")
	}
	align := stringOr(raw, "align", "left")
	if !textAligns[align] {
		v.warn(objID, "text.align", fmt.Sprintf("unknown align %q, using left", align))
		align = "left"
	}
	t.Align = align
	if lh := numberOr(raw, "lineHeight", 1.2); finitePositive(lh) {
		t.LineHeight = lh
	} else {
		v.warn(objID, "text.lineHeight", "must be a finite positive number, using 1.2")
	}
	return t
}

// Untyped accessors. JSON numbers decode as float64; plain ints are accepted
// too so hand-built maps in tests behave the same way.

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func finitePositive(n float64) bool {
	return n > 0 && !math.IsInf(n, 0) && !math.IsNaN(n)
}

func clamp01(n float64) float64 {
	return math.Max(0, math.Min(1, n))
}

func stringOr(m map[string]any, field, def string) string {
	if s, ok := m[field].(string); ok {
		return s
	}
	return def
}

func numberOr(m map[string]any, field string, def float64) float64 {
	if n, ok := number(m[field]); ok {
		return n
	}
	return def
}

func boolOr(m map[string]any, field string, def bool) bool {
	if b, ok := m[field].(bool); ok {
		return b
	}
	return def
}

func vec2Or(m map[string]any, field string, def Vec2) Vec2 {
	vm, ok := m[field].(map[string]any)
	if !ok {
		return def
	}
	x, xok := number(vm["x"])
	y, yok := number(vm["y"])
	if !xok || !yok {
		return def
	}
	return Vec2{X: x, Y: y}
}

func requireVec2(m map[string]any, field string) (Vec2, bool) {
	vm, ok := m[field].(map[string]any)
	if !ok {
		return Vec2{}, false
	}
	x, xok := number(vm["x"])
	y, yok := number(vm["y"])
	if !xok || !yok || math.IsNaN(x) || math.IsNaN(y) {
		return Vec2{}, false
	}
	return Vec2{X: x, Y: y}, true
}

func requireSizeField(m map[string]any, field string) (Size, bool) {
	vm, ok := m[field].(map[string]any)
	if !ok {
		return Size{}, false
	}
	w, wok := number(vm["width"])
	h, hok := number(vm["height"])
	if !wok || !hok || !finitePositive(w) || !finitePositive(h) {
		return Size{}, false
	}
	return Size{Width: w, Height: h}, true
}
