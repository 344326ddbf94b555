package components

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// Space is the singleton resolv collision space every collider body lives in.
var Space = donburi.NewComponentType[resolv.Space]()
