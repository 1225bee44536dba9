// Package stream serves solver frames over websocket and accepts remote
// force events.
package stream

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pthm-cable/stablefluids/fluid"
	"github.com/pthm-cable/stablefluids/telemetry"
)

// Message types exchanged on /ws.
const (
	TypeFrame = "frame"
	TypeForce = "force"
	TypeReset = "reset"
)

// ErrUnknownMessage is returned for a message type the hub does not handle.
var ErrUnknownMessage = errors.New("stream: unknown message type")

// Frame is one outbound broadcast. Particles holds interleaved x, y pairs in
// normalized domain coordinates.
type Frame struct {
	Type      string              `json:"type"`
	Tick      int                 `json:"tick"`
	Dim       int                 `json:"dim"`
	Stats     telemetry.StepStats `json:"stats"`
	Particles []float32           `json:"particles"`
}

// inbound is the union of client messages.
type inbound struct {
	Type string  `json:"type"`
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	DX   float32 `json:"dx"`
	DY   float32 `json:"dy"`
}

// Command is a decoded client message.
type Command struct {
	Type  string
	Force fluid.Force
}

// DecodeCommand parses one client message.
func DecodeCommand(data []byte) (Command, error) {
	var m inbound
	if err := json.Unmarshal(data, &m); err != nil {
		return Command{}, fmt.Errorf("stream: decoding message: %w", err)
	}
	switch m.Type {
	case TypeForce:
		return Command{Type: TypeForce, Force: fluid.Force{X: m.X, Y: m.Y, DX: m.DX, DY: m.DY}}, nil
	case TypeReset:
		return Command{Type: TypeReset}, nil
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownMessage, m.Type)
	}
}

// Subsample appends at most max particle positions to dst, taking every
// ceil(len/max)-th particle. max <= 0 keeps all of them.
func Subsample(dst []float32, ps []fluid.Particle, max int) []float32 {
	stride := 1
	if max > 0 && len(ps) > max {
		stride = (len(ps) + max - 1) / max
	}
	for i := 0; i < len(ps); i += stride {
		dst = append(dst, ps[i].X, ps[i].Y)
	}
	return dst
}
