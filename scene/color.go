package scene

import (
	"image/color"
	"strconv"
	"strings"
)

// ParseColor decodes "#rgb", "#rrggbb" or "#rrggbbaa" into an RGBA color.
// Anything unparseable yields the fallback.
func ParseColor(s string, fallback color.RGBA) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3:
		var buf strings.Builder
		for _, c := range s {
			buf.WriteRune(c)
			buf.WriteRune(c)
		}
		s = buf.String()
	case 6, 8:
	default:
		return fallback
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}
}
