// Package scene parses, validates and normalizes declarative scene files.
// Validation never panics and never returns partial objects: a scene either
// normalizes fully (with every optional field defaulted) or the caller gets a
// list of fatal problems to act on. Warnings accompany either outcome.
package scene

import (
	"encoding/json"
	"fmt"
)

// Object types form a closed enumeration; anything else is dropped with a
// warning at validation time.
const (
	TypeProp     = "prop"
	TypeTrigger  = "trigger"
	TypeCollider = "collider"
	TypeSpawn    = "spawn"
	TypeLight    = "light"
	TypeText     = "text"
)

// Trigger event kinds.
const (
	EventEnter    = "onEnter"
	EventExit     = "onExit"
	EventStay     = "onStay"
	EventInteract = "onInteract"
)

// Collider shapes.
const (
	ShapeBox     = "box"
	ShapeCircle  = "circle"
	ShapePolygon = "polygon"
)

// Vec2 is a 2D point in scene coordinates.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Grid holds editor grid settings. The runtime carries them through
// normalization untouched so authored files round-trip.
type Grid struct {
	Enabled bool    `json:"enabled"`
	Size    float64 `json:"size"`
	Snap    bool    `json:"snap"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// Bounds is an axis-aligned rectangle.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Camera holds the scene's camera defaults.
type Camera struct {
	DefaultPosition Vec2    `json:"defaultPosition"`
	DefaultZoom     float64 `json:"defaultZoom"`
	Bounds          *Bounds `json:"bounds,omitempty"`
}

// Collider describes a physics-body binding.
type Collider struct {
	Shape       string  `json:"shape"`
	Offset      Vec2    `json:"offset"`
	IsStatic    bool    `json:"isStatic"`
	IsTrigger   bool    `json:"isTrigger"`
	Density     float64 `json:"density"`
	Friction    float64 `json:"friction"`
	Restitution float64 `json:"restitution"`
	Points      []Vec2  `json:"points,omitempty"`
}

// Trigger describes an overlap-driven event source.
type Trigger struct {
	Event    string  `json:"event"`
	Script   string  `json:"script,omitempty"`
	Action   string  `json:"action,omitempty"`
	Cooldown float64 `json:"cooldown"`
	OneShot  bool    `json:"oneShot"`
}

// Text describes rendered text content.
type Text struct {
	Content    string  `json:"content"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize"`
	Align      string  `json:"align"`
	LineHeight float64 `json:"lineHeight"`
}

// Object is one fully normalized entity descriptor.
type Object struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Name         string         `json:"name"`
	Position     Vec2           `json:"position"`
	Size         Size           `json:"size"`
	Rotation     float64        `json:"rotation"`
	Scale        Vec2           `json:"scale"`
	Opacity      float64        `json:"opacity"`
	ZIndex       float64        `json:"zIndex"`
	Color        string         `json:"color,omitempty"`
	Sprite       string         `json:"sprite,omitempty"`
	Script       string         `json:"script,omitempty"`
	ScriptParams map[string]any `json:"scriptParams,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	Visible      bool           `json:"visible"`
	Locked       bool           `json:"locked"`
	Collider     *Collider      `json:"collider,omitempty"`
	Trigger      *Trigger       `json:"trigger,omitempty"`
	Text         *Text          `json:"text,omitempty"`

	// seq is the object's position in the source descriptor list, used as
	// the second sort key for reproducible ordering.
	seq int
}

// HasTag reports tag membership.
func (o *Object) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Scene is the unit of loadable content, fully normalized.
type Scene struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Version         int      `json:"version"`
	LastModified    string   `json:"lastModified,omitempty"`
	Size            Size     `json:"size"`
	Background      string   `json:"background,omitempty"`
	BackgroundColor string   `json:"backgroundColor"`
	Grid            Grid     `json:"grid"`
	Camera          Camera   `json:"camera"`
	Objects         []Object `json:"objects"`
	Scripts         []string `json:"scripts,omitempty"`
}

// Object returns the descriptor with the given id, or nil.
func (s *Scene) Object(id string) *Object {
	for i := range s.Objects {
		if s.Objects[i].ID == id {
			return &s.Objects[i]
		}
	}
	return nil
}

// Marshal renders the normalized scene back to JSON. Validating the result
// again yields the identical scene with no problems.
func (s *Scene) Marshal() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Parse decodes raw scene bytes into the untyped form the validator consumes.
func Parse(data []byte, source string) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", source, err)
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parse scene %s: root is not an object", source)
	}
	return m, nil
}
