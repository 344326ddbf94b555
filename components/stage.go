package components

import (
	"sort"

	"github.com/yohamta/donburi"
	"go.uber.org/zap"

	"github.com/hollowmoor/scenery/behavior"
	"github.com/hollowmoor/scenery/events"
	"github.com/hollowmoor/scenery/scene"
)

// StageData is the entity manager: the singleton component owning every live
// entity's indexes, the deferred-destroy queue and the depth-sorted draw
// order. All cross-entity references in the runtime are ids resolved through
// Lookup each time; nothing holds an entry across frames.
type StageData struct {
	Scene *scene.Scene
	Bus   *events.Bus
	Log   *zap.Logger

	byID  map[string]donburi.Entity
	order []donburi.Entity
	seq   uint64

	pending    []string
	pendingSet map[string]struct{}

	needsResort bool

	// InteractRequests holds actor ids whose driver requested interaction
	// this frame; the trigger system consumes and clears it.
	InteractRequests []string

	// SceneScripts are the scene-level behavior instances, updated after
	// entity behaviors each frame.
	SceneScripts []*behavior.Instance
}

var Stage = donburi.NewComponentType[StageData]()

// NewStageData builds an empty manager for the given scene.
func NewStageData(sc *scene.Scene, bus *events.Bus, log *zap.Logger) StageData {
	if bus == nil {
		bus = events.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return StageData{
		Scene:      sc,
		Bus:        bus,
		Log:        log,
		byID:       map[string]donburi.Entity{},
		pendingSet: map[string]struct{}{},
	}
}

// NextSeq returns the next creation index; monotonically increasing and only
// used for deterministic ordering.
func (s *StageData) NextSeq() uint64 {
	s.seq++
	return s.seq
}

// Register adds an entity to all indexes and flags a resort.
func (s *StageData) Register(id string, e donburi.Entity) {
	s.byID[id] = e
	s.order = append(s.order, e)
	s.needsResort = true
}

// Lookup resolves an entity id. O(1).
func (s *StageData) Lookup(id string) (donburi.Entity, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// LookupEntry resolves an id to a live entry, nil if absent or stale.
func (s *StageData) LookupEntry(w donburi.World, id string) *donburi.Entry {
	e, ok := s.byID[id]
	if !ok || !w.Valid(e) {
		return nil
	}
	return w.Entry(e)
}

// ByTag returns the ids of live entities carrying the tag, in creation order.
// A linear scan: entity counts are scene-scoped and small.
func (s *StageData) ByTag(w donburi.World, tag string) []string {
	var out []string
	for _, e := range s.order {
		if !w.Valid(e) {
			continue
		}
		entry := w.Entry(e)
		ent := Entity.Get(entry)
		if ent.HasTag(tag) {
			out = append(out, ent.ID)
		}
	}
	return out
}

// QueueDestroy marks an entity for removal at the start of the next manager
// update. Idempotent: queueing twice destroys once.
func (s *StageData) QueueDestroy(id string) {
	if _, dup := s.pendingSet[id]; dup {
		return
	}
	if _, ok := s.byID[id]; !ok {
		return
	}
	s.pendingSet[id] = struct{}{}
	s.pending = append(s.pending, id)
}

// PendingDestroy reports whether id is queued for removal.
func (s *StageData) PendingDestroy(id string) bool {
	_, ok := s.pendingSet[id]
	return ok
}

// TakePending returns and clears the destroy queue in request order.
func (s *StageData) TakePending() []string {
	out := s.pending
	s.pending = nil
	s.pendingSet = map[string]struct{}{}
	return out
}

// Deregister removes an entity from all indexes.
func (s *StageData) Deregister(id string) {
	e, ok := s.byID[id]
	if !ok {
		return
	}
	delete(s.byID, id)
	for i, o := range s.order {
		if o == e {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// MarkResort flags the draw order dirty, e.g. after a depth index change.
func (s *StageData) MarkResort() { s.needsResort = true }

// EnsureSorted lazily re-sorts the live list by (depth index, creation
// index, id) so draw order stays reproducible when depth indices collide.
func (s *StageData) EnsureSorted(w donburi.World) {
	if !s.needsResort {
		return
	}
	s.needsResort = false

	type key struct {
		z   float64
		seq uint64
		id  string
	}
	keys := make(map[donburi.Entity]key, len(s.order))
	for _, e := range s.order {
		if !w.Valid(e) {
			keys[e] = key{}
			continue
		}
		entry := w.Entry(e)
		k := key{}
		if entry.HasComponent(Entity) {
			ent := Entity.Get(entry)
			k.seq = ent.Seq
			k.id = ent.ID
		}
		if entry.HasComponent(Transform) {
			k.z = Transform.Get(entry).Z
		}
		keys[e] = k
	}

	sort.SliceStable(s.order, func(i, j int) bool {
		a, b := keys[s.order[i]], keys[s.order[j]]
		if a.z != b.z {
			return a.z < b.z
		}
		if a.seq != b.seq {
			return a.seq < b.seq
		}
		return a.id < b.id
	})
}

// EachInCreationOrder visits live entities by creation index. Systems that
// promise deterministic iteration (behaviors, triggers) use this rather than
// archetype storage order.
func (s *StageData) EachInCreationOrder(w donburi.World, fn func(*donburi.Entry)) {
	entries := make([]*donburi.Entry, 0, len(s.order))
	for _, e := range s.order {
		if !w.Valid(e) {
			continue
		}
		entries = append(entries, w.Entry(e))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return Entity.Get(entries[i]).Seq < Entity.Get(entries[j]).Seq
	})
	for _, entry := range entries {
		fn(entry)
	}
}

// EachOrdered visits live entities in draw order. The caller is expected to
// have run EnsureSorted this frame if ordering matters.
func (s *StageData) EachOrdered(w donburi.World, fn func(*donburi.Entry)) {
	for _, e := range s.order {
		if !w.Valid(e) {
			continue
		}
		fn(w.Entry(e))
	}
}

// Count returns the number of live entities.
func (s *StageData) Count() int { return len(s.byID) }
