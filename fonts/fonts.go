// Package fonts caches font faces for the text component. TTF files resolve
// against the asset roots; anything unresolvable falls back to a basic
// bitmap face so text entities always render.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/hollowmoor/scenery/config"
	"github.com/hollowmoor/scenery/pathutil"
)

var (
	mu    sync.Mutex
	log   = zap.NewNop()
	roots []string

	parsed = map[string]*truetype.Font{}
	faces  = map[string]font.Face{}
)

// SetLogger installs the logging collaborator.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l != nil {
		log = l
	}
}

// SetRoots overrides the search roots. Defaults to config.C.AssetRoots.
func SetRoots(rs []string) {
	mu.Lock()
	defer mu.Unlock()
	roots = rs
}

// Face returns a face for the given family reference and size. family is a
// project-relative TTF path; an empty or unresolvable family yields the
// fallback face.
func Face(family string, size float64) font.Face {
	mu.Lock()
	defer mu.Unlock()

	if family == "" {
		return basicfont.Face7x13
	}

	key := fmt.Sprintf("%s@%.1f", family, size)
	if f, ok := faces[key]; ok {
		return f
	}

	ttf, ok := parsed[family]
	if !ok {
		searchRoots := roots
		if len(searchRoots) == 0 {
			searchRoots = config.C.AssetRoots
		}
		data, _, err := pathutil.ReadFirst(searchRoots, family)
		if err != nil {
			log.Warn("font not found, using fallback face",
				zap.String("family", family), zap.Error(err))
			faces[key] = basicfont.Face7x13
			return basicfont.Face7x13
		}
		ttf, err = truetype.Parse(data)
		if err != nil {
			log.Warn("font failed to parse, using fallback face",
				zap.String("family", family), zap.Error(err))
			faces[key] = basicfont.Face7x13
			return basicfont.Face7x13
		}
		parsed[family] = ttf
	}

	f := truetype.NewFace(ttf, &truetype.Options{Size: size})
	faces[key] = f
	return f
}
