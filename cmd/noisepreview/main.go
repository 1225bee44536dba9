// Noise preview tool - interactive view of the initial swirl field with sliders.
//
// Usage: go run ./cmd/noisepreview
package main

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/stablefluids/colormap"
	"github.com/pthm-cable/stablefluids/fluid"
)

const (
	windowWidth  = 1000
	windowHeight = 620
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
)

// NoiseParams mirrors the initial: config block.
type NoiseParams struct {
	Amplitude float32
	Scale     float32
	Seed      int64
	Gain      float32 // display only
}

func defaultParams() NoiseParams {
	return NoiseParams{Amplitude: 0.01, Scale: 4, Seed: 7, Gain: 8}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Initial Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()

	layout, err := fluid.NewLayout(gridSize, 0)
	if err != nil {
		panic(err)
	}
	field := fluid.NewVelocityField(layout)
	lut := colormap.Viridis()
	pixels := make([]color.RGBA, gridSize*gridSize)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var div fluid.Divergence
	var maxSpeed float32
	needsRegen := true
	needsRecolor := false

	for !rl.WindowShouldClose() {
		if needsRegen {
			fluid.SeedNoise(field, float64(params.Amplitude), float64(params.Scale), params.Seed)
			div = fluid.MeasureDivergence(field)
			maxSpeed = fluid.MaxSpeed(field)
			needsRegen = false
			needsRecolor = true
		}
		if needsRecolor {
			pixels = colormap.ColorizePixels(pixels, field, lut, params.Gain)
			rl.UpdateTexture(texture, pixels)
			needsRecolor = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Draw stats
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Max speed: %.4f  Energy: %.4g", maxSpeed, fluid.Energy(field)), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Divergence RMS: %.3g  max: %.3g", div.RMS, div.MaxAbs), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Initial Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		if v, changed := slider(panelX, &panelY, "Amplitude (peak stream function)", "%.4f", params.Amplitude, 0, 0.05); changed {
			params.Amplitude = v
			needsRegen = true
		}
		if v, changed := slider(panelX, &panelY, "Scale (features per domain)", "%.1f", params.Scale, 0.5, 16); changed {
			params.Scale = v
			needsRegen = true
		}
		if v, changed := slider(panelX, &panelY, "Seed", "%.0f", float32(params.Seed), 0, 99999); changed {
			params.Seed = int64(v)
			needsRegen = true
		}

		// Separator
		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		if v, changed := slider(panelX, &panelY, "Display gain", "%.1f", params.Gain, 0.5, 40); changed {
			params.Gain = v
			needsRecolor = true
		}
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := params.yaml()
		rl.DrawText(yaml, int32(panelX), int32(panelY), 14, rl.Gray)

		// Instructions
		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)

		// Copy to clipboard on C key
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider, advances y and reports whether the value moved.
func slider(x float32, y *float32, label, format string, value, lo, hi float32) (float32, bool) {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		"", "",
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v, v != value
}

func (p NoiseParams) yaml() string {
	return fmt.Sprintf("initial:\n  noise_amplitude: %.4f\n  noise_scale: %.1f\n  seed: %d",
		p.Amplitude, p.Scale, p.Seed)
}
