package components

import (
	"github.com/yohamta/donburi"

	"github.com/hollowmoor/scenery/behavior"
)

// BehaviorData attaches an externally supplied script to an entity. Inst is
// nil when the script reference failed to resolve; the component is then
// permanently inert and every hook call is a no-op.
type BehaviorData struct {
	Path   string
	Params map[string]any
	Inst   *behavior.Instance
}

var Behavior = donburi.NewComponentType[BehaviorData]()
