package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/stablefluids/telemetry"
)

// PanelWidth is the HUD column width in pixels.
const PanelWidth = 300

// HUDData holds all the data needed to render the HUD.
type HUDData struct {
	Tick          int
	FPS           int32
	Paused        bool
	ShowField     bool
	ShowParticles bool
	Gain          float32
	Zoom          float32
	Dim           int
	Particles     int
	Clients       int
	Stats         telemetry.StepStats
	Perf          telemetry.PerfStats
}

// HUDActions reports which controls were used this frame.
type HUDActions struct {
	TogglePause     bool
	Reset           bool
	ToggleField     bool
	ToggleParticles bool
	Gain            float32
}

// HUD renders the side panel.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD at panel x and returns the controls used.
func (h *HUD) Draw(x, screenH int32, data HUDData) HUDActions {
	r := h.renderer
	pad := r.Theme.Padding
	width := int32(PanelWidth) - 2*pad

	r.DrawPanel(x, 0, PanelWidth, screenH)
	x += pad
	y := pad

	y = r.DrawSectionHeader(x, y, "Stable Fluids")
	status := "running"
	if data.Paused {
		status = "PAUSED"
	}
	y = r.DrawLabelValue(x, y, "Status", status)
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", data.Tick))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))
	y = r.DrawLabelValue(x, y, "Grid", fmt.Sprintf("%d x %d", data.Dim, data.Dim))
	y = r.DrawLabelValue(x, y, "Particles", fmt.Sprintf("%d", data.Particles))
	y = r.DrawLabelValue(x, y, "Zoom", fmt.Sprintf("%.1fx", data.Zoom))
	if data.Clients > 0 {
		y = r.DrawLabelValue(x, y, "Clients", fmt.Sprintf("%d", data.Clients))
	}
	y += 6

	y = r.DrawSectionHeader(x, y, "Field")
	y = r.DrawLabelValue(x, y, "Energy", fmt.Sprintf("%.3g", data.Stats.Energy))
	y = r.DrawLabelValue(x, y, "Max speed", fmt.Sprintf("%.3g", data.Stats.MaxSpeed))
	y = r.DrawLabelValue(x, y, "Div RMS", fmt.Sprintf("%.3g", data.Stats.DivRMS))
	y += 6

	y = r.DrawSectionHeader(x, y, "Step")
	y = r.DrawLabelValue(x, y, "Avg", fmt.Sprintf("%d us", data.Perf.AvgTickDuration.Microseconds()))
	for _, phase := range telemetry.Phases {
		y = r.DrawBar(x, y, phase, data.Perf.PhasePct[phase], width)
	}
	y += 10

	var act HUDActions
	half := float32(width-10) / 2
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: 28}, toggleText(data.Paused, "Resume", "Pause")) {
		act.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + 10, Y: float32(y), Width: half, Height: 28}, "Reset") {
		act.Reset = true
	}
	y += 38

	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: 28}, toggleText(data.ShowField, "Hide field", "Show field")) {
		act.ToggleField = true
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + 10, Y: float32(y), Width: half, Height: 28}, toggleText(data.ShowParticles, "Hide particles", "Show particles")) {
		act.ToggleParticles = true
	}
	y += 42

	rl.DrawText("Gain", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += 18
	act.Gain = gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width - 50), Height: 18},
		"", fmt.Sprintf("%.1f", data.Gain),
		data.Gain, 0.5, 40,
	)

	rl.DrawText("drag: stir   wheel: zoom   right drag: pan", x, screenH-40, 12, rl.Gray)
	rl.DrawText("space: pause   r: reset   home: view", x, screenH-24, 12, rl.Gray)
	return act
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
