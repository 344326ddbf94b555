package scene

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lafriks/go-tiled"
)

// ImportTiled converts a Tiled TMX map into a normalized Scene. Tile layers
// named "solid" become static box colliders (one per occupied cell), objects
// in a "Triggers" group become trigger volumes, and objects in a "Spawns"
// group become spawn markers. The converted descriptors run through the same
// Validate pass as hand-authored JSON, so the importer cannot smuggle in
// malformed content.
func ImportTiled(fsys fs.FS, tmxPath string) (*Scene, []Problem, error) {
	m, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	id := strings.TrimSuffix(filepath.Base(tmxPath), ".tmx")

	raw := map[string]any{
		"id":   id,
		"name": id,
		"size": map[string]any{
			"width":  float64(m.Width * m.TileWidth),
			"height": float64(m.Height * m.TileHeight),
		},
	}

	var objects []any

	tileW := float64(m.TileWidth)
	tileH := float64(m.TileHeight)
	for _, layer := range m.Layers {
		if layer.Name != "solid" {
			continue
		}
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				tile := layer.Tiles[y*m.Width+x]
				if tile.IsNil() {
					continue
				}
				objects = append(objects, map[string]any{
					"id":   fmt.Sprintf("solid-%d-%d", x, y),
					"type": TypeCollider,
					"position": map[string]any{
						"x": float64(x) * tileW,
						"y": float64(y) * tileH,
					},
					"size": map[string]any{"width": tileW, "height": tileH},
					"collider": map[string]any{
						"shape":    ShapeBox,
						"isStatic": true,
					},
				})
			}
		}
		break
	}

	for _, og := range m.ObjectGroups {
		switch og.Name {
		case "Triggers":
			for _, o := range og.Objects {
				objects = append(objects, tiledTrigger(o))
			}
		case "Spawns":
			for _, o := range og.Objects {
				objects = append(objects, map[string]any{
					"id":       tiledObjectID(o, "spawn"),
					"type":     TypeSpawn,
					"name":     o.Name,
					"position": map[string]any{"x": o.X, "y": o.Y},
					"size": map[string]any{
						"width":  orOne(o.Width),
						"height": orOne(o.Height),
					},
				})
			}
		}
	}

	raw["objects"] = objects

	sc, problems := Validate(raw, tmxPath)
	if sc == nil {
		return nil, problems, fmt.Errorf("import TMX %s: conversion failed validation", tmxPath)
	}
	return sc, problems, nil
}

func tiledTrigger(o *tiled.Object) map[string]any {
	trigger := map[string]any{}
	if event := o.Properties.GetString("event"); event != "" {
		trigger["event"] = event
	}
	if action := o.Properties.GetString("action"); action != "" {
		trigger["action"] = action
	}
	if script := o.Properties.GetString("script"); script != "" {
		trigger["script"] = script
	}
	if cd := o.Properties.GetString("cooldown"); cd != "" {
		if f, err := strconv.ParseFloat(cd, 64); err == nil {
			trigger["cooldown"] = f
		}
	}
	if o.Properties.GetBool("oneShot") {
		trigger["oneShot"] = true
	}

	return map[string]any{
		"id":       tiledObjectID(o, "trigger"),
		"type":     TypeTrigger,
		"name":     o.Name,
		"position": map[string]any{"x": o.X, "y": o.Y},
		"size": map[string]any{
			"width":  orOne(o.Width),
			"height": orOne(o.Height),
		},
		"trigger": trigger,
	}
}

func tiledObjectID(o *tiled.Object, kind string) string {
	if o.Name != "" {
		return o.Name
	}
	return fmt.Sprintf("%s-%d", kind, o.ID)
}

// Tiled point objects carry zero extents; validation requires positive sizes.
func orOne(n float64) float64 {
	if n <= 0 {
		return 1
	}
	return n
}
