package events

import (
	"github.com/yohamta/donburi"
	devents "github.com/yohamta/donburi/features/events"
)

// TriggerPayload travels on the named bus for "trigger:<event>" and
// "action.<name>" publishes.
type TriggerPayload struct {
	Event  string // onEnter, onExit, onStay, onInteract
	Action string // configured action name, empty for the generic publish
	Source string // trigger entity id
	Target string // overlapping entity id
}

// ContactPayload describes a begin or end contact between two collider owners.
type ContactPayload struct {
	A, B  string // entity ids
	Begin bool
}

// Typed in-world events. These are queued and pumped once per frame after the
// trigger pass, unlike the named bus which delivers synchronously.
var (
	Trigger     = devents.NewEventType[TriggerPayload]()
	Contact     = devents.NewEventType[ContactPayload]()
	SceneLoaded = devents.NewEventType[SceneLoadedPayload]()
)

// SceneLoadedPayload is published when a stage finishes building a scene.
type SceneLoadedPayload struct {
	SceneID  string
	Entities int
	Warnings int
}

// ProcessAll drains every typed event queue for the world.
func ProcessAll(w donburi.World) {
	Trigger.ProcessEvents(w)
	Contact.ProcessEvents(w)
	SceneLoaded.ProcessEvents(w)
}
