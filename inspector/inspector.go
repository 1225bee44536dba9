// Package inspector shows the local state of a selected grid cell.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/stablefluids/camera"
	"github.com/pthm-cable/stablefluids/fluid"
)

// Panel dimensions
const (
	PanelWidth   = 280
	PanelHeight  = 330
	PanelPadding = 10
	HeaderHeight = 30
	graphHeight  = 90
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorHighlight   = rl.Color{R: 255, G: 255, B: 255, A: 200}
)

// Inspector manages cell selection and panel rendering.
type Inspector struct {
	cellX, cellY int
	hasSelected  bool

	probe    fluid.Probe
	lastTick int
	history  *history
}

// NewInspector creates a new inspector instance.
func NewInspector() *Inspector {
	return &Inspector{history: newHistory(), lastTick: -1}
}

// Select picks the cell under domain point (x, y) on a dim x dim grid.
func (ins *Inspector) Select(x, y float32, dim int) {
	cx := min(max(int(x*float32(dim)), 0), dim-1)
	cy := min(max(int(y*float32(dim)), 0), dim-1)
	if ins.hasSelected && cx == ins.cellX && cy == ins.cellY {
		return
	}
	ins.cellX, ins.cellY = cx, cy
	ins.hasSelected = true
	ins.history.reset()
	ins.lastTick = -1
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
	ins.history.reset()
}

// Selected returns the selected cell.
func (ins *Inspector) Selected() (x, y int, ok bool) {
	return ins.cellX, ins.cellY, ins.hasSelected
}

// Update probes the selected cell. The history advances once per tick.
func (ins *Inspector) Update(v *fluid.VelocityField, tick int) {
	if !ins.hasSelected {
		return
	}
	ins.probe = fluid.ProbeCell(v, ins.cellX, ins.cellY)
	if tick != ins.lastTick {
		ins.history.record([numSeries]float64{
			seriesSpeed:     float64(ins.probe.Speed),
			seriesVorticity: float64(ins.probe.Vorticity),
		})
		ins.lastTick = tick
	}
}

// panelRect places the panel in the bottom-left corner of the viewport.
func panelRect(vp rl.Rectangle) (x, y int32) {
	return int32(vp.X) + 10, int32(vp.Y+vp.Height) - PanelHeight - 10
}

// Contains reports whether screen point p is over the panel.
func (ins *Inspector) Contains(vp rl.Rectangle, p rl.Vector2) bool {
	if !ins.hasSelected {
		return false
	}
	px, py := panelRect(vp)
	return int32(p.X) >= px && int32(p.X) <= px+PanelWidth &&
		int32(p.Y) >= py && int32(p.Y) <= py+PanelHeight
}

// HandleClick deselects when p hits the close button. It reports whether
// the click was consumed by the panel.
func (ins *Inspector) HandleClick(vp rl.Rectangle, p rl.Vector2) bool {
	if !ins.Contains(vp, p) {
		return false
	}
	px, py := panelRect(vp)
	closeX := px + PanelWidth - 25
	closeY := py + 5
	if int32(p.X) >= closeX && int32(p.X) <= closeX+20 &&
		int32(p.Y) >= closeY && int32(p.Y) <= closeY+20 {
		ins.Deselect()
	}
	return true
}

// Draw renders the panel over the viewport.
func (ins *Inspector) Draw(vp rl.Rectangle) {
	if !ins.hasSelected {
		return
	}
	px, py := panelRect(vp)

	// Draw panel background
	rl.DrawRectangle(px, py, PanelWidth, PanelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(px), Y: float32(py), Width: PanelWidth, Height: PanelHeight},
		1,
		ColorPanelBorder,
	)

	// Draw header
	rl.DrawRectangle(px, py, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("CELL %d, %d", ins.cellX, ins.cellY), px+PanelPadding, py+7, 16, ColorHeaderText)

	// Draw close button
	closeX := px + PanelWidth - 25
	closeY := py + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	// Content area
	x := px + PanelPadding
	y := py + HeaderHeight + PanelPadding
	for _, f := range ExtractFields(ins.probe) {
		if f.Name == "X" || f.Name == "Y" {
			continue
		}
		y += DrawField(x, y, f)
	}

	y += 6
	ins.history.draw(x, y, PanelWidth-2*PanelPadding, graphHeight)
}

// DrawSelectionHighlight outlines the selected cell when cam can see it.
func (ins *Inspector) DrawSelectionHighlight(vp rl.Rectangle, cam *camera.Camera, dim int) {
	if !ins.hasSelected {
		return
	}
	n := float32(dim)
	x0, y0 := float32(ins.cellX)/n, float32(ins.cellY)/n
	if !cam.IsVisible(x0, y0) {
		return
	}
	u0, v0 := cam.DomainToView(x0, y0)
	u1, v1 := cam.DomainToView(x0+1/n, y0+1/n)

	// At least a few pixels so single cells stay visible at zoom 1
	w := max((u1-u0)*vp.Width, 5)
	h := max((v1-v0)*vp.Height, 5)
	cx := vp.X + (u0+u1)/2*vp.Width
	cy := vp.Y + (v0+v1)/2*vp.Height
	rl.DrawRectangleLinesEx(rl.Rectangle{X: cx - w/2, Y: cy - h/2, Width: w, Height: h}, 1, ColorHighlight)
}
