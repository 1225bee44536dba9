package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	// History buffer size (number of solver ticks to keep)
	historySize = 240

	// Line series indices
	seriesSpeed     = 0
	seriesVorticity = 1
	numSeries       = 2
)

// History panel colors
var (
	colorGraphBg     = rl.Color{R: 15, G: 15, B: 25, A: 255}
	colorGraphGrid   = rl.Color{R: 40, G: 40, B: 50, A: 255}
	colorGraphBorder = rl.Color{R: 60, G: 60, B: 70, A: 255}

	seriesNames  = [numSeries]string{"speed", "vorticity"}
	seriesColors = [numSeries]rl.Color{
		{R: 100, G: 149, B: 237, A: 255}, // Cornflower blue
		{R: 255, G: 150, B: 130, A: 255}, // Light red
	}
)

// history is a ring buffer of probe series, one point per solver tick.
type history struct {
	data  [numSeries][]float64
	index int
	count int
}

func newHistory() *history {
	h := &history{}
	for i := range h.data {
		h.data[i] = make([]float64, historySize)
	}
	return h
}

func (h *history) reset() {
	h.index = 0
	h.count = 0
}

func (h *history) record(values [numSeries]float64) {
	for s, v := range values {
		h.data[s][h.index] = v
	}
	h.index = (h.index + 1) % historySize
	if h.count < historySize {
		h.count++
	}
}

// at returns the i-th oldest point of series s.
func (h *history) at(s, i int) float64 {
	return h.data[s][(h.index-h.count+i+historySize)%historySize]
}

// seriesRange finds min/max of one series with 10% padding.
func (h *history) seriesRange(s int) (lo, hi float64) {
	lo, hi = math.MaxFloat64, -math.MaxFloat64
	for i := 0; i < h.count; i++ {
		v := h.at(s, i)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo >= hi {
		return lo - 0.001, hi + 0.001
	}
	padding := (hi - lo) * 0.1
	return lo - padding, hi + padding
}

// draw renders both series, each on its own vertical scale.
func (h *history) draw(x, y, w, gh int32) {
	rl.DrawRectangle(x, y, w, gh, colorGraphBg)
	rl.DrawRectangleLines(x, y, w, gh, colorGraphBorder)

	// Draw grid lines
	for i := int32(1); i < 4; i++ {
		gridY := y + (gh * i / 4)
		rl.DrawLine(x, gridY, x+w, gridY, colorGraphGrid)
	}

	if h.count < 2 {
		rl.DrawText("Waiting for data...", x+10, y+gh/2-7, 12, ColorTextDim)
		return
	}

	for s := 0; s < numSeries; s++ {
		lo, hi := h.seriesRange(s)
		h.drawSeriesLine(x, y, w, gh, s, lo, hi)
	}

	// Legend with the latest values
	for s := 0; s < numSeries; s++ {
		lx := x + 4 + int32(s)*int32(w/2)
		rl.DrawRectangle(lx, y+gh+4, 10, 10, seriesColors[s])
		label := fmt.Sprintf("%s %.3g", seriesNames[s], h.at(s, h.count-1))
		rl.DrawText(label, lx+14, y+gh+3, 11, ColorText)
	}
}

// drawSeriesLine draws one data series as a line.
func (h *history) drawSeriesLine(x, y, w, gh int32, s int, lo, hi float64) {
	valueRange := hi - lo

	var prevX, prevY int32
	for i := 0; i < h.count; i++ {
		v := h.at(s, i)

		// Map to screen coordinates
		px := x + int32(float64(i)*float64(w)/float64(h.count-1))
		py := y + gh - int32((v-lo)/valueRange*float64(gh))

		// Clamp to graph bounds
		py = max(y, min(py, y+gh))

		if i > 0 {
			rl.DrawLine(prevX, prevY, px, py, seriesColors[s])
		}
		prevX, prevY = px, py
	}
}
