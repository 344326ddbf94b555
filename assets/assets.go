// Package assets loads images by project-relative reference. A reference
// that cannot be resolved yields a shared placeholder image rather than a
// failure: missing art degrades rendering, never the frame loop.
package assets

import (
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/hollowmoor/scenery/config"
	"github.com/hollowmoor/scenery/pathutil"
)

var (
	mu    sync.Mutex
	roots []string
	log   = zap.NewNop()

	cache       = map[string]*ebiten.Image{}
	placeholder *ebiten.Image
)

// SetRoots overrides the search roots. Defaults to config.C.AssetRoots.
func SetRoots(rs []string) {
	mu.Lock()
	defer mu.Unlock()
	roots = rs
}

// SetLogger installs the logging collaborator.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l != nil {
		log = l
	}
}

func searchRoots() []string {
	if len(roots) > 0 {
		return roots
	}
	return config.C.AssetRoots
}

// Load returns the image for ref, from cache when possible. The result is
// never nil: unresolvable references return Placeholder().
func Load(ref string) *ebiten.Image {
	mu.Lock()
	defer mu.Unlock()

	if img, ok := cache[ref]; ok {
		return img
	}

	path, err := pathutil.Resolve(searchRoots(), ref)
	if err != nil {
		log.Warn("asset not found, using placeholder",
			zap.String("ref", ref), zap.Error(err))
		img := placeholderImage()
		cache[ref] = img
		return img
	}

	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		log.Warn("asset failed to decode, using placeholder",
			zap.String("ref", ref), zap.Error(err))
		img = placeholderImage()
	}
	cache[ref] = img
	return img
}

// IsPlaceholder reports whether img is the shared missing-asset image.
func IsPlaceholder(img *ebiten.Image) bool {
	mu.Lock()
	defer mu.Unlock()
	return img != nil && img == placeholder
}

// Placeholder returns the shared missing-asset image: a magenta/black
// checker, the engine-visible marker for broken references.
func Placeholder() *ebiten.Image {
	mu.Lock()
	defer mu.Unlock()
	return placeholderImage()
}

func placeholderImage() *ebiten.Image {
	if placeholder != nil {
		return placeholder
	}
	const cell = 8
	img := ebiten.NewImage(cell*2, cell*2)
	magenta := color.RGBA{R: 0xff, B: 0xff, A: 0xff}
	img.Fill(color.Black)
	sub := ebiten.NewImage(cell, cell)
	sub.Fill(magenta)
	op := &ebiten.DrawImageOptions{}
	img.DrawImage(sub, op)
	op.GeoM.Translate(cell, cell)
	img.DrawImage(sub, op)
	placeholder = img
	return placeholder
}

// Reset clears the cache. Scene deactivation calls this so reloading a scene
// re-resolves references against the current roots.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cache = map[string]*ebiten.Image{}
}
