package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hollowmoor/scenery/pathutil"
)

// Load reads, parses and validates the scene referenced by ref against the
// given asset roots. Any fatal problem yields a nil scene together with the
// full problem list so callers can surface every error from one attempt.
// Warnings are logged and returned but never block loading.
func Load(roots []string, ref string, log *zap.Logger) (*Scene, []Problem, error) {
	if log == nil {
		log = zap.NewNop()
	}
	data, path, err := pathutil.ReadFirst(roots, ref)
	if err != nil {
		return nil, nil, fmt.Errorf("load scene %s: %w", ref, err)
	}

	raw, err := Parse(data, path)
	if err != nil {
		return nil, nil, err
	}

	sc, problems := Validate(raw, path)
	for _, w := range Warnings(problems) {
		log.Warn("scene load warning",
			zap.String("scene", ref),
			zap.String("object", w.ObjectID),
			zap.String("field", w.Field),
			zap.String("detail", w.Msg),
		)
	}
	if fatals := Fatals(problems); len(fatals) > 0 {
		log.Error("scene failed validation",
			zap.String("scene", ref),
			zap.Int("errors", len(fatals)),
		)
		return nil, problems, fmt.Errorf("scene %s: %d fatal validation errors", ref, len(fatals))
	}
	return sc, problems, nil
}
