package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/frostframe/config"
)

// WeatherSlider binds one weather field to a slider range.
type WeatherSlider struct {
	Label    string
	Min, Max float32
	Format   string
	Field    func(w *config.WeatherConfig) *float64
}

// WeatherSliders are the controls shown in the weather panel.
var WeatherSliders = []WeatherSlider{
	{"Wind Speed", 0, 15, "%.1f", func(w *config.WeatherConfig) *float64 { return &w.WindSpeed }},
	{"Wind Direction", 0, 360, "%.0f deg", func(w *config.WeatherConfig) *float64 { return &w.WindDirection }},
	{"Turbulence", 0, 2, "%.2f", func(w *config.WeatherConfig) *float64 { return &w.Turbulence }},
	{"Gravity", -20, -1, "%.2f", func(w *config.WeatherConfig) *float64 { return &w.Gravity }},
}

// WeatherAction is what the user did with the panel this frame.
type WeatherAction struct {
	Weather config.WeatherConfig // weather after slider edits
	Changed bool                 // a slider moved
	Reset   bool                 // "Reset Simulation" pressed
}

// WeatherPanel renders sliders for the live weather and a reset button.
type WeatherPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewWeatherPanel creates a new weather panel.
func NewWeatherPanel(x, y, width int32) *WeatherPanel {
	return &WeatherPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// Toggle switches panel visibility.
func (p *WeatherPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *WeatherPanel) IsVisible() bool {
	return p.visible
}

// Contains reports whether a screen point is over the panel, so the camera
// can ignore drags that belong to a slider.
func (p *WeatherPanel) Contains(x, y float32) bool {
	if !p.visible {
		return false
	}
	return x >= float32(p.x) && x < float32(p.x+p.width) &&
		y >= float32(p.y) && y < float32(p.y+p.height())
}

func (p *WeatherPanel) height() int32 {
	th := p.renderer.Theme
	return th.Padding*2 + th.LineHeight + int32(len(WeatherSliders))*44 + 40
}

// Draw renders the panel and returns the user's edits.
func (p *WeatherPanel) Draw(w config.WeatherConfig) WeatherAction {
	action := WeatherAction{Weather: w}
	if !p.visible {
		return action
	}

	r := p.renderer
	th := r.Theme
	r.DrawPanel(p.x, p.y, p.width, p.height())

	x := float32(p.x + th.Padding)
	y := r.DrawSectionHeader(p.x+th.Padding, p.y+th.Padding, "Weather")
	sliderW := float32(p.width - th.Padding*2 - 70)

	for _, s := range WeatherSliders {
		field := s.Field(&action.Weather)
		rl.DrawText(s.Label, int32(x), y, th.FontSize, th.LabelColor)
		y += th.LineHeight

		cur := float32(*field)
		next := gui.SliderBar(
			rl.Rectangle{X: x, Y: float32(y), Width: sliderW, Height: 16},
			"", "",
			cur, s.Min, s.Max,
		)
		rl.DrawText(fmt.Sprintf(s.Format, *field), int32(x+sliderW+8), y, th.FontSize, th.ValueColor)
		if next != cur {
			*field = float64(next)
			action.Changed = true
		}
		y += 26
	}

	y += 4
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: float32(p.width - th.Padding*2), Height: 26}, "Reset Simulation") {
		action.Reset = true
	}
	return action
}
