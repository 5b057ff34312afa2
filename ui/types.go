// Package ui draws the viewer's heads-up display and weather control panel.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillFull    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 34, A: 220},
		PanelBorder:    rl.Color{R: 70, G: 84, B: 100, A: 255},
		SectionHeader:  rl.Color{R: 170, G: 210, B: 255, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.White,
		BarBg:          rl.Color{R: 40, G: 44, B: 52, A: 255},
		BarFill:        rl.Color{R: 140, G: 190, B: 230, A: 255},
		BarFillFull:    rl.Color{R: 220, G: 120, B: 110, A: 255},
		Padding:        10,
		LineHeight:     18,
		LabelWidth:     110,
		BarHeight:      12,
		FontSize:       14,
		HeaderFontSize: 16,
	}
}
