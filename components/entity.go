package components

import "github.com/yohamta/donburi"

// EntityData is the identity component every scene entity carries: stable id,
// descriptor type, tag membership and the flags the runtime checks each frame.
type EntityData struct {
	ID      string
	Type    string
	Name    string
	Tags    map[string]struct{}
	Visible bool
	Locked  bool

	// Seq is the creation index, assigned by the stage in load order and
	// used as the draw-order tie-break.
	Seq uint64
}

func (e *EntityData) HasTag(tag string) bool {
	_, ok := e.Tags[tag]
	return ok
}

func (e *EntityData) AddTag(tag string) {
	if e.Tags == nil {
		e.Tags = map[string]struct{}{}
	}
	e.Tags[tag] = struct{}{}
}

func (e *EntityData) RemoveTag(tag string) {
	delete(e.Tags, tag)
}

var Entity = donburi.NewComponentType[EntityData]()
