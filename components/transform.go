package components

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/math"
)

// Rect is an axis-aligned box in world space.
type Rect struct {
	X, Y, W, H float64
}

// Overlaps reports strict half-open overlap on both axes. Degenerate
// zero-area contact (shared edges, zero extents) does not count.
func (r Rect) Overlaps(o Rect) bool {
	if r.W <= 0 || r.H <= 0 || o.W <= 0 || o.H <= 0 {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// TransformData is the kinematic pose every entity carries.
type TransformData struct {
	Pos      math.Vec2
	Rotation float64 // degrees
	Scale    math.Vec2
	Size     math.Vec2
	Z        float64
}

// WorldBounds returns the entity's scaled axis-aligned bounds. Position is
// the top-left corner, matching scene-file coordinates.
func (t *TransformData) WorldBounds() Rect {
	return Rect{
		X: t.Pos.X,
		Y: t.Pos.Y,
		W: t.Size.X * t.Scale.X,
		H: t.Size.Y * t.Scale.Y,
	}
}

var Transform = donburi.NewComponentType[TransformData]()
