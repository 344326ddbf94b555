package systems

import (
	"encoding/json"
	"sort"

	"github.com/quasilyte/gdata"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"

	"github.com/hollowmoor/scenery/components"
)

// SavedProgress is the runtime state carried across sessions: the scene to
// resume in and, per scene, which one-shot triggers already fired so they
// stay silent after a reload.
type SavedProgress struct {
	LastScene     string              `json:"lastScene"`
	FiredTriggers map[string][]string `json:"firedTriggers"`
}

var (
	gdataManager     *gdata.Manager
	gdataInitialized bool
	persistenceLog   = zap.NewNop()
)

// InitPersistence opens the per-user data store. Failure is non-fatal: the
// runtime works without persistence, progress just resets each session.
func InitPersistence(log *zap.Logger) error {
	if log != nil {
		persistenceLog = log
	}
	m, err := gdata.Open(gdata.Config{
		AppName: "scenery",
	})
	if err != nil {
		persistenceLog.Warn("could not initialize persistence", zap.Error(err))
		return err
	}
	gdataManager = m
	gdataInitialized = true
	return nil
}

// LoadProgress reads saved progress from disk, nil when absent or unreadable.
func LoadProgress() (*SavedProgress, error) {
	if !gdataInitialized || gdataManager == nil {
		return nil, nil
	}

	data, err := gdataManager.LoadItem("progress")
	if err != nil {
		persistenceLog.Warn("could not load progress", zap.Error(err))
		return nil, nil
	}
	if len(data) == 0 {
		return nil, nil
	}

	var progress SavedProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		persistenceLog.Warn("could not parse saved progress", zap.Error(err))
		return nil, err
	}
	return &progress, nil
}

// SaveProgress writes progress to disk.
func SaveProgress(p *SavedProgress) error {
	if !gdataInitialized || gdataManager == nil || p == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		persistenceLog.Warn("could not serialize progress", zap.Error(err))
		return err
	}
	if err := gdataManager.SaveItem("progress", data); err != nil {
		persistenceLog.Warn("could not save progress", zap.Error(err))
		return err
	}
	return nil
}

// CaptureProgress folds the current scene's fired one-shot triggers into the
// saved record and marks it the scene to resume.
func CaptureProgress(e *ecs.ECS, saved *SavedProgress) *SavedProgress {
	stage := stageOf(e)
	if stage == nil || stage.Scene == nil {
		return saved
	}
	if saved == nil {
		saved = &SavedProgress{}
	}
	if saved.FiredTriggers == nil {
		saved.FiredTriggers = map[string][]string{}
	}

	var fired []string
	stage.EachInCreationOrder(e.World, func(entry *donburi.Entry) {
		if !entry.HasComponent(components.Trigger) {
			return
		}
		data := components.Trigger.Get(entry)
		if data.OneShot && data.Fired {
			fired = append(fired, components.Entity.Get(entry).ID)
		}
	})
	sort.Strings(fired)

	saved.LastScene = stage.Scene.ID
	saved.FiredTriggers[stage.Scene.ID] = fired
	return saved
}

// ApplyProgress replays saved one-shot state onto a freshly built scene so
// already-fired triggers never fire again.
func ApplyProgress(e *ecs.ECS, saved *SavedProgress) {
	if saved == nil {
		return
	}
	stage := stageOf(e)
	if stage == nil || stage.Scene == nil {
		return
	}
	fired := saved.FiredTriggers[stage.Scene.ID]
	if len(fired) == 0 {
		return
	}
	firedSet := make(map[string]struct{}, len(fired))
	for _, id := range fired {
		firedSet[id] = struct{}{}
	}

	stage.EachInCreationOrder(e.World, func(entry *donburi.Entry) {
		if !entry.HasComponent(components.Trigger) {
			return
		}
		data := components.Trigger.Get(entry)
		if !data.OneShot {
			return
		}
		if _, ok := firedSet[components.Entity.Get(entry).ID]; ok {
			data.Fired = true
		}
	})
}

// HasProgress reports whether a saved record exists.
func HasProgress() bool {
	if !gdataInitialized || gdataManager == nil {
		return false
	}
	data, err := gdataManager.LoadItem("progress")
	return err == nil && len(data) > 0
}

// ClearProgress removes any saved record.
func ClearProgress() error {
	if !gdataInitialized || gdataManager == nil {
		return nil
	}
	if err := gdataManager.SaveItem("progress", nil); err != nil {
		persistenceLog.Warn("could not clear progress", zap.Error(err))
		return err
	}
	return nil
}
