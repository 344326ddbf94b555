package components

import (
	"github.com/yohamta/donburi"

	"github.com/hollowmoor/scenery/behavior"
)

// TriggerData is an overlap-driven event source. Configuration comes from the
// scene descriptor; the live state below it is maintained by the trigger
// system across frames.
type TriggerData struct {
	Event    string // scene.EventEnter, EventExit, EventStay, EventInteract
	Script   string
	Action   string
	Cooldown float64
	OneShot  bool

	// Live state.
	CooldownLeft float64
	Fired        bool
	Overlaps     map[string]struct{} // entity ids overlapping this frame
	LastTarget   string              // last known interact target

	// Inst is the trigger's own script instance, nil when no script is
	// configured or its load failed.
	Inst *behavior.Instance
}

// Ready reports whether the firing policy allows this trigger to fire now.
func (t *TriggerData) Ready() bool {
	if t.OneShot && t.Fired {
		return false
	}
	if t.Cooldown > 0 && t.CooldownLeft > 0 {
		return false
	}
	return true
}

var Trigger = donburi.NewComponentType[TriggerData]()
