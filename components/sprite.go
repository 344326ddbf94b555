package components

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"
)

// SpriteData is the visual render state. Image nil means a flat color quad;
// Placeholder marks the shared missing-asset checker so debug tooling can
// count degraded visuals.
type SpriteData struct {
	Image       *ebiten.Image
	Color       color.RGBA
	Opacity     float64
	Placeholder bool
}

var Sprite = donburi.NewComponentType[SpriteData]()
