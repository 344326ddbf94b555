package components

import (
	"github.com/yohamta/donburi"
	"golang.org/x/image/font"
)

type TextData struct {
	Content    string
	FontFamily string
	FontSize   float64
	Align      string // left, center, right
	LineHeight float64
	Face       font.Face
}

var Text = donburi.NewComponentType[TextData]()
