// Package scenes hosts the runtime stage: the ebiten-facing driver that loads
// scene files, builds their entity graph and steps the system pipeline in a
// fixed order each frame.
package scenes

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"

	"github.com/hollowmoor/scenery/behavior"
	"github.com/hollowmoor/scenery/components"
	cfg "github.com/hollowmoor/scenery/config"
	"github.com/hollowmoor/scenery/events"
	"github.com/hollowmoor/scenery/scene"
	"github.com/hollowmoor/scenery/systems"
	"github.com/hollowmoor/scenery/systems/factory"
)

// Stage runs one scene at a time. Activating a new scene tears the previous
// one down completely; a failed load keeps the previous scene running.
type Stage struct {
	log *zap.Logger
	bus *events.Bus

	ecs      *ecs.ECS
	index    []scene.IndexEntry
	current  *scene.Scene
	problems []scene.Problem
	saved    *systems.SavedProgress
}

// NewStage builds an empty stage. No scene is active until Activate.
func NewStage(log *zap.Logger) *Stage {
	if log == nil {
		log = zap.NewNop()
	}
	return &Stage{
		log: log,
		bus: events.Default(),
	}
}

// Bus returns the process-wide event bus the stage publishes on.
func (s *Stage) Bus() *events.Bus { return s.bus }

// ECS exposes the live world, nil when no scene is active.
func (s *Stage) ECS() *ecs.ECS { return s.ecs }

// CurrentID names the active scene, empty when none.
func (s *Stage) CurrentID() string {
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

// Problems returns the warning/fatal list from the most recent load attempt,
// successful or not.
func (s *Stage) Problems() []scene.Problem { return s.problems }

// LoadIndex reads the scene index from the configured asset roots.
func (s *Stage) LoadIndex() error {
	index, err := scene.LoadIndex(cfg.C.AssetRoots, cfg.C.SceneIndex)
	if err != nil {
		return err
	}
	s.index = index
	return nil
}

// Index returns the loaded scene index entries.
func (s *Stage) Index() []scene.IndexEntry { return s.index }

// Activate loads and switches to the scene with the given id. On a fatal
// load problem the error is returned and the previous scene stays active
// untouched.
func (s *Stage) Activate(id string) error {
	entry, ok := scene.FindEntry(s.index, id)
	path := scene.DefaultScenePath(id)
	if ok {
		path = entry.Path
	}

	sc, problems, err := scene.Load(cfg.C.AssetRoots, path, s.log)
	s.problems = problems
	if err != nil {
		s.log.Error("scene load failed, keeping previous scene",
			zap.String("scene", id),
			zap.Error(err))
		return fmt.Errorf("activate scene %s: %w", id, err)
	}
	s.ActivateScene(sc)
	return nil
}

// ActivateScene switches to an already-validated scene.
func (s *Stage) ActivateScene(sc *scene.Scene) {
	if s.ecs != nil {
		s.saved = systems.CaptureProgress(s.ecs, s.saved)
		systems.Teardown(s.ecs)
	}

	e := ecs.NewECS(donburi.NewWorld())

	e.AddSystem(systems.UpdatePhysics)
	e.AddSystem(systems.UpdateStage)
	e.AddSystem(systems.UpdateTriggers)
	e.AddSystem(systems.UpdateBehaviors)
	e.AddSystem(systems.UpdateCamera)
	e.AddSystem(systems.PumpEvents)

	e.AddRenderer(cfg.Default, systems.DrawBackground)
	e.AddRenderer(cfg.Default, systems.DrawSprites)
	e.AddRenderer(cfg.Default, systems.DrawTexts)
	e.AddRenderer(cfg.Default, systems.DrawBehaviors)
	e.AddRenderer(cfg.Default, systems.DrawDebug)

	factory.CreateStage(e, sc, s.bus, s.log)
	factory.CreateSpace(e, int(sc.Size.Width), int(sc.Size.Height))
	factory.CreateCamera(e, sc)

	for i := range sc.Objects {
		factory.CreateObject(e, &sc.Objects[i])
	}
	s.attachSceneScripts(e, sc)
	factory.InitBehaviors(e)

	if s.saved == nil {
		s.saved, _ = systems.LoadProgress()
	}
	systems.ApplyProgress(e, s.saved)

	s.ecs = e
	s.current = sc

	warnings := len(scene.Warnings(s.problems))
	s.log.Info("scene activated",
		zap.String("scene", sc.ID),
		zap.Int("entities", len(sc.Objects)),
		zap.Int("warnings", warnings))

	events.SceneLoaded.Publish(e.World, events.SceneLoadedPayload{
		SceneID:  sc.ID,
		Entities: len(sc.Objects),
		Warnings: warnings,
	})
	s.bus.Publish("scene:loaded", events.SceneLoadedPayload{
		SceneID:  sc.ID,
		Entities: len(sc.Objects),
		Warnings: warnings,
	})

	s.saved = systems.CaptureProgress(e, s.saved)
	_ = systems.SaveProgress(s.saved)
}

// attachSceneScripts instantiates scene-level scripts; they live on the
// stage, not on any entity.
func (s *Stage) attachSceneScripts(e *ecs.ECS, sc *scene.Scene) {
	stageEntry, ok := components.Stage.First(e.World)
	if !ok {
		return
	}
	stage := components.Stage.Get(stageEntry)
	for _, ref := range sc.Scripts {
		inst, err := behavior.New(ref, &behavior.Context{
			ECS:      e,
			EntityID: "scene:" + sc.ID,
			Bus:      s.bus,
			Log:      s.log,
		})
		if err != nil {
			s.log.Warn("scene script failed to load",
				zap.String("scene", sc.ID),
				zap.String("script", ref),
				zap.Error(err))
			continue
		}
		inst.CallOnLoad()
		stage.SceneScripts = append(stage.SceneScripts, inst)
	}
}

// RequestInteract routes an interaction request for an actor into the
// trigger system.
func (s *Stage) RequestInteract(actorID string) {
	if s.ecs == nil {
		return
	}
	systems.RequestInteract(s.ecs, actorID)
}

// Destroy queues an entity for removal at the next update.
func (s *Stage) Destroy(id string) {
	if s.ecs == nil {
		return
	}
	if stageEntry, ok := components.Stage.First(s.ecs.World); ok {
		components.Stage.Get(stageEntry).QueueDestroy(id)
	}
}

// Update steps the active scene by one fixed timestep.
func (s *Stage) Update() {
	if s.ecs == nil {
		return
	}
	s.ecs.Update()
}

// Draw renders the active scene.
func (s *Stage) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	if s.ecs == nil {
		return
	}
	s.ecs.Draw(screen)
}

// Shutdown tears the active scene down and records progress.
func (s *Stage) Shutdown() {
	if s.ecs == nil {
		return
	}
	s.saved = systems.CaptureProgress(s.ecs, s.saved)
	_ = systems.SaveProgress(s.saved)
	systems.Teardown(s.ecs)
	s.ecs = nil
	s.current = nil
}
