package scenes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hollowmoor/scenery/behavior"
	cfg "github.com/hollowmoor/scenery/config"
	"github.com/hollowmoor/scenery/events"
	"github.com/hollowmoor/scenery/scene"
)

const goodScene = `{
  "id": "%ID%",
  "size": {"width": 100, "height": 100},
  "objects": [
    {"id": "p1", "type": "prop", "position": {"x": 10, "y": 10}, "size": {"width": 5, "height": 5}}
  ]
}`

const badScene = `{
  "size": {"width": 100, "height": 100},
  "objects": []
}`

func writeScenes(t *testing.T, files map[string]string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scenes"), 0o755))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "scenes", name), []byte(body), 0o644))
	}

	oldRoots := cfg.C.AssetRoots
	cfg.C.AssetRoots = []string{dir}
	t.Cleanup(func() { cfg.C.AssetRoots = oldRoots })
}

func sceneJSON(id string) string {
	return strings.ReplaceAll(goodScene, "%ID%", id)
}

func TestActivateBuildsScene(t *testing.T) {
	writeScenes(t, map[string]string{
		"index.json": `{"scenes": [{"id": "one", "path": "scenes/one.json"}]}`,
		"one.json":   sceneJSON("one"),
	})

	s := NewStage(zap.NewNop())
	require.NoError(t, s.LoadIndex())
	require.NoError(t, s.Activate("one"))

	assert.Equal(t, "one", s.CurrentID())
	require.NotNil(t, s.ECS())
	assert.Empty(t, s.Problems())
}

func TestFailedActivateKeepsPreviousScene(t *testing.T) {
	writeScenes(t, map[string]string{
		"index.json":  `{"scenes": [{"id": "one", "path": "scenes/one.json"}, {"id": "broken", "path": "scenes/broken.json"}]}`,
		"one.json":    sceneJSON("one"),
		"broken.json": badScene,
	})

	s := NewStage(zap.NewNop())
	require.NoError(t, s.LoadIndex())
	require.NoError(t, s.Activate("one"))

	err := s.Activate("broken")
	require.Error(t, err)
	assert.Equal(t, "one", s.CurrentID())
	assert.NotEmpty(t, scene.Fatals(s.Problems()))
}

func TestActivateUnknownSceneFails(t *testing.T) {
	writeScenes(t, map[string]string{
		"index.json": `{"scenes": [{"id": "one", "path": "scenes/one.json"}]}`,
		"one.json":   sceneJSON("one"),
	})

	s := NewStage(zap.NewNop())
	require.NoError(t, s.LoadIndex())
	assert.Error(t, s.Activate("nope"))
	assert.Equal(t, "", s.CurrentID())
}

func TestSceneScriptsLifecycle(t *testing.T) {
	var calls []string
	behavior.Register("test/scene-script", func() behavior.Table {
		return &sceneScript{calls: &calls}
	})

	sc := &scene.Scene{
		ID:      "scripted",
		Size:    scene.Size{Width: 100, Height: 100},
		Camera:  scene.Camera{DefaultZoom: 1},
		Scripts: []string{"test/scene-script"},
	}

	s := NewStage(zap.NewNop())
	s.ActivateScene(sc)
	assert.Equal(t, []string{"load", "init"}, calls)

	s.Update()
	assert.Equal(t, []string{"load", "init", "update"}, calls)

	s.Shutdown()
	assert.Equal(t, []string{"load", "init", "update", "destroy"}, calls)
}

func TestSceneLoadedPublishesOnBus(t *testing.T) {
	writeScenes(t, map[string]string{
		"index.json": `{"scenes": [{"id": "one", "path": "scenes/one.json"}]}`,
		"one.json":   sceneJSON("one"),
	})

	s := NewStage(zap.NewNop())
	require.NoError(t, s.LoadIndex())

	var got events.SceneLoadedPayload
	loads := 0
	s.Bus().Subscribe("scene:loaded", func(_ string, payload any) {
		got = payload.(events.SceneLoadedPayload)
		loads++
	})

	require.NoError(t, s.Activate("one"))
	assert.Equal(t, 1, loads)
	assert.Equal(t, "one", got.SceneID)
	assert.Equal(t, 1, got.Entities)
}

type sceneScript struct{ calls *[]string }

func (s *sceneScript) OnLoad(*behavior.Context)          { *s.calls = append(*s.calls, "load") }
func (s *sceneScript) OnInit(*behavior.Context)          { *s.calls = append(*s.calls, "init") }
func (s *sceneScript) Update(*behavior.Context, float64) { *s.calls = append(*s.calls, "update") }
func (s *sceneScript) OnDestroy(*behavior.Context)       { *s.calls = append(*s.calls, "destroy") }
