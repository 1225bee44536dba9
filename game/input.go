package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/stablefluids/fluid"
	"github.com/pthm-cable/stablefluids/renderer"
	"github.com/pthm-cable/stablefluids/ui"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.reset()
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.showField = !g.showField
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showParticles = !g.showParticles
	}
	if rl.IsKeyPressed(rl.KeyL) {
		g.logPerfStats()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.cam.Reset()
	}

	g.handleCamera()
	g.handleSelect()
	g.handleDrag()
}

// handleSelect picks the probed cell with a middle click and lets the
// inspector panel take left clicks that land on it.
func (g *Game) handleSelect() {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	vp := renderer.Viewport(w, h, ui.PanelWidth)
	pos := rl.GetMousePosition()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && g.inspector.HandleClick(vp, pos) {
		g.dragBlocked = true
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonMiddle) {
		if u, v, inside := renderer.ToView(vp, pos); inside {
			x, y := g.cam.ViewToDomain(u, v)
			g.inspector.Select(x, y, g.solver.Layout().Dim)
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) {
		g.inspector.Deselect()
	}
}

// handleCamera zooms with the wheel around the cursor and pans with a
// right-button drag.
func (g *Game) handleCamera() {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	vp := renderer.Viewport(w, h, ui.PanelWidth)
	u, v, inside := renderer.ToView(vp, rl.GetMousePosition())

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && inside {
		factor := float32(1.1)
		if wheel < 0 {
			factor = 1 / factor
		}
		g.cam.ZoomAt(factor, u, v)
	}

	if !rl.IsMouseButtonDown(rl.MouseButtonRight) {
		g.panning = false
		return
	}
	if !g.panning {
		g.panning = inside
		return
	}
	d := rl.GetMouseDelta()
	g.cam.Pan(d.X/vp.Width, d.Y/vp.Height)
}

// handleDrag turns a left-button drag inside the field viewport into a
// force event: the position is the cursor in domain coordinates and the
// delta is the cursor motion in domain units, which is a fraction of the
// viewport at zoom 1.
func (g *Game) handleDrag() {
	if !rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		g.dragging = false
		g.dragBlocked = false
		return
	}
	if g.dragBlocked {
		return
	}

	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	vp := renderer.Viewport(w, h, ui.PanelWidth)
	pos := rl.GetMousePosition()

	u, v, inside := renderer.ToView(vp, pos)
	if !g.dragging {
		// Drags start only on the field, not on the HUD
		g.dragging = inside
		g.lastMouse = pos
		return
	}

	dx := (pos.X - g.lastMouse.X) / vp.Width / g.cam.Zoom
	dy := (pos.Y - g.lastMouse.Y) / vp.Height / g.cam.Zoom
	g.lastMouse = pos
	if !inside || (dx == 0 && dy == 0) {
		return
	}
	x, y := g.cam.ViewToDomain(u, v)
	g.forces = append(g.forces, fluid.Force{X: x, Y: y, DX: dx, DY: dy})
}
