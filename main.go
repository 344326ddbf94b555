package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/hollowmoor/scenery/assets"
	"github.com/hollowmoor/scenery/components"
	"github.com/hollowmoor/scenery/config"
	"github.com/hollowmoor/scenery/fonts"
	"github.com/hollowmoor/scenery/scenes"
	_ "github.com/hollowmoor/scenery/scripts"
	"github.com/hollowmoor/scenery/systems"
)

type Game struct {
	stage *scenes.Stage
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		g.requestInteractForActors()
	}
	g.stage.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.stage.Draw(screen)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return config.C.Width, config.C.Height
}

// requestInteractForActors fires an interact request for every entity tagged
// "actor"; onInteract triggers only act on actors overlapping them.
func (g *Game) requestInteractForActors() {
	e := g.stage.ECS()
	if e == nil {
		return
	}
	stageEntry, ok := components.Stage.First(e.World)
	if !ok {
		return
	}
	stage := components.Stage.Get(stageEntry)
	for _, id := range stage.ByTag(e.World, "actor") {
		g.stage.RequestInteract(id)
	}
}

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		log = zap.NewNop()
	}
	defer log.Sync() //nolint:errcheck

	if err := config.Load("scenery.yaml"); err != nil {
		log.Warn("config file ignored", zap.Error(err))
	}

	assets.SetRoots(config.C.AssetRoots)
	assets.SetLogger(log)
	fonts.SetRoots(config.C.AssetRoots)
	fonts.SetLogger(log)

	_ = systems.InitPersistence(log)

	stage := scenes.NewStage(log)
	if err := stage.LoadIndex(); err != nil {
		log.Fatal("scene index unavailable", zap.Error(err))
	}

	startID := ""
	if saved, _ := systems.LoadProgress(); saved != nil {
		startID = saved.LastScene
	}
	if startID == "" {
		index := stage.Index()
		if len(index) == 0 {
			log.Fatal("scene index is empty")
		}
		startID = index[0].ID
	}
	if err := stage.Activate(startID); err != nil {
		log.Fatal("could not activate scene",
			zap.String("scene", startID),
			zap.Error(err))
	}

	ebiten.SetWindowSize(config.C.Width, config.C.Height)
	ebiten.SetWindowTitle(config.C.Title)

	if err := ebiten.RunGame(&Game{stage: stage}); err != nil {
		log.Fatal("game loop ended", zap.Error(err))
	}
	stage.Shutdown()
}
