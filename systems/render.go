package systems

import (
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"golang.org/x/image/font"

	"github.com/hollowmoor/scenery/assets"
	"github.com/hollowmoor/scenery/components"
	"github.com/hollowmoor/scenery/config"
	"github.com/hollowmoor/scenery/scene"
)

var drawOp = &ebiten.DrawImageOptions{}

// view converts world coordinates to screen space through the camera.
type view struct {
	camX, camY float64
	zoom       float64
	halfW      float64
	halfH      float64
}

func viewOf(e *ecs.ECS, screen *ebiten.Image) view {
	v := view{
		zoom:  1,
		halfW: float64(screen.Bounds().Dx()) / 2,
		halfH: float64(screen.Bounds().Dy()) / 2,
	}
	if cameraEntry, ok := components.Camera.First(e.World); ok {
		camera := components.Camera.Get(cameraEntry)
		v.camX = camera.Position.X
		v.camY = camera.Position.Y
		if camera.Zoom > 0 {
			v.zoom = camera.Zoom
		}
	}
	return v
}

func (v view) toScreen(x, y float64) (float64, float64) {
	return (x-v.camX)*v.zoom + v.halfW, (y-v.camY)*v.zoom + v.halfH
}

// DrawBackground fills the scene background color and draws the background
// image, stretched to the scene size, behind everything else.
func DrawBackground(e *ecs.ECS, screen *ebiten.Image) {
	stage := stageOf(e)
	if stage == nil || stage.Scene == nil {
		return
	}
	sc := stage.Scene
	screen.Fill(scene.ParseColor(sc.BackgroundColor, color.RGBA{A: 0xff}))

	if sc.Background == "" {
		return
	}
	img := assets.Load(sc.Background)
	if img == nil || assets.IsPlaceholder(img) {
		return
	}
	v := viewOf(e, screen)
	sx, sy := v.toScreen(0, 0)

	drawOp.GeoM.Reset()
	drawOp.ColorScale.Reset()
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	drawOp.GeoM.Scale(
		sc.Size.Width/float64(iw)*v.zoom,
		sc.Size.Height/float64(ih)*v.zoom,
	)
	drawOp.GeoM.Translate(sx, sy)
	screen.DrawImage(img, drawOp)
}

// DrawSprites renders every visible sprite-carrying entity in resolved draw
// order: depth index first, creation order and id as tie-breaks.
func DrawSprites(e *ecs.ECS, screen *ebiten.Image) {
	stage := stageOf(e)
	if stage == nil {
		return
	}
	v := viewOf(e, screen)

	// Culling pads by half the largest reasonable sprite so visuals do not
	// pop at the screen edge.
	const padding = 64.0
	minX := v.camX - v.halfW/v.zoom - padding
	maxX := v.camX + v.halfW/v.zoom + padding
	minY := v.camY - v.halfH/v.zoom - padding
	maxY := v.camY + v.halfH/v.zoom + padding

	stage.EnsureSorted(e.World)
	stage.EachOrdered(e.World, func(entry *donburi.Entry) {
		if !entry.HasComponent(components.Sprite) {
			return
		}
		ent := components.Entity.Get(entry)
		if !ent.Visible {
			return
		}
		tf := components.Transform.Get(entry)
		b := tf.WorldBounds()
		if b.X+b.W < minX || b.X > maxX || b.Y+b.H < minY || b.Y > maxY {
			return
		}
		sprite := components.Sprite.Get(entry)
		if sprite.Opacity <= 0 {
			return
		}

		if sprite.Image != nil {
			drawSpriteImage(screen, v, sprite, tf, b)
			return
		}
		drawColorQuad(screen, v, sprite, b)
	})
}

func drawSpriteImage(screen *ebiten.Image, v view, sprite *components.SpriteData, tf *components.TransformData, b components.Rect) {
	img := sprite.Image
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	if iw == 0 || ih == 0 {
		return
	}

	drawOp.GeoM.Reset()
	drawOp.ColorScale.Reset()
	drawOp.GeoM.Scale(b.W/float64(iw), b.H/float64(ih))
	if tf.Rotation != 0 {
		drawOp.GeoM.Translate(-b.W/2, -b.H/2)
		drawOp.GeoM.Rotate(tf.Rotation * math.Pi / 180)
		drawOp.GeoM.Translate(b.W/2, b.H/2)
	}
	sx, sy := v.toScreen(b.X, b.Y)
	drawOp.GeoM.Scale(v.zoom, v.zoom)
	drawOp.GeoM.Translate(sx, sy)
	drawOp.ColorScale.ScaleAlpha(float32(sprite.Opacity))
	screen.DrawImage(img, drawOp)
}

func drawColorQuad(screen *ebiten.Image, v view, sprite *components.SpriteData, b components.Rect) {
	sx, sy := v.toScreen(b.X, b.Y)
	c := sprite.Color
	c.A = uint8(float64(c.A) * sprite.Opacity)
	vector.DrawFilledRect(screen,
		float32(sx), float32(sy),
		float32(b.W*v.zoom), float32(b.H*v.zoom),
		c, false)
}

// DrawTexts renders text entities above sprites, honoring per-line alignment.
func DrawTexts(e *ecs.ECS, screen *ebiten.Image) {
	stage := stageOf(e)
	if stage == nil {
		return
	}
	v := viewOf(e, screen)

	stage.EnsureSorted(e.World)
	stage.EachOrdered(e.World, func(entry *donburi.Entry) {
		if !entry.HasComponent(components.Text) {
			return
		}
		ent := components.Entity.Get(entry)
		if !ent.Visible {
			return
		}
		td := components.Text.Get(entry)
		if td.Face == nil || td.Content == "" {
			return
		}
		tf := components.Transform.Get(entry)
		b := tf.WorldBounds()
		sx, sy := v.toScreen(b.X, b.Y)

		clr := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
		if entry.HasComponent(components.Sprite) {
			clr = components.Sprite.Get(entry).Color
		}

		lineStep := td.FontSize * td.LineHeight * v.zoom
		baseline := sy + td.FontSize*v.zoom
		for i, line := range strings.Split(td.Content, "\n") {
			lx := sx
			switch td.Align {
			case "center":
				lx += (b.W*v.zoom - lineWidth(td.Face, line)) / 2
			case "right":
				lx += b.W*v.zoom - lineWidth(td.Face, line)
			}
			text.Draw(screen, line, td.Face, int(lx), int(baseline+float64(i)*lineStep), clr)
		}
	})
}

func lineWidth(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s) >> 6)
}

// DrawBehaviors gives scripts a draw hook after the world is rendered.
func DrawBehaviors(e *ecs.ECS, screen *ebiten.Image) {
	stage := stageOf(e)
	if stage == nil {
		return
	}
	stage.EachInCreationOrder(e.World, func(entry *donburi.Entry) {
		if entry.HasComponent(components.Behavior) {
			components.Behavior.Get(entry).Inst.CallDraw(screen)
		}
	})
	for _, inst := range stage.SceneScripts {
		inst.CallDraw(screen)
	}
}

// DrawDebug outlines collider and trigger volumes when enabled.
func DrawDebug(e *ecs.ECS, screen *ebiten.Image) {
	if !config.Debug.DrawBounds {
		return
	}
	stage := stageOf(e)
	if stage == nil {
		return
	}
	v := viewOf(e, screen)

	colliderColor := color.RGBA{G: 0xff, A: 0xff}
	triggerColor := color.RGBA{R: 0xff, G: 0xff, A: 0xff}

	stage.EachInCreationOrder(e.World, func(entry *donburi.Entry) {
		isCollider := entry.HasComponent(components.Collider)
		isTrigger := entry.HasComponent(components.Trigger)
		if !isCollider && !isTrigger {
			return
		}
		b := boundsOf(entry)
		sx, sy := v.toScreen(b.X, b.Y)
		clr := colliderColor
		if isTrigger {
			clr = triggerColor
		}
		vector.StrokeRect(screen,
			float32(sx), float32(sy),
			float32(b.W*v.zoom), float32(b.H*v.zoom),
			1, clr, false)
	})
}
