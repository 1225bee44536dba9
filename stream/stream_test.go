package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/stablefluids/config"
	"github.com/pthm-cable/stablefluids/fluid"
	"github.com/pthm-cable/stablefluids/telemetry"
)

func TestDecodeCommand(t *testing.T) {
	cmd, err := DecodeCommand([]byte(`{"type":"force","x":0.25,"y":0.5,"dx":0.01,"dy":-0.02}`))
	if err != nil {
		t.Fatal(err)
	}
	want := fluid.Force{X: 0.25, Y: 0.5, DX: 0.01, DY: -0.02}
	if cmd.Type != TypeForce || cmd.Force != want {
		t.Errorf("got %+v, want force %+v", cmd, want)
	}

	if cmd, err := DecodeCommand([]byte(`{"type":"reset"}`)); err != nil || cmd.Type != TypeReset {
		t.Errorf("reset decoded as %+v, %v", cmd, err)
	}
	if _, err := DecodeCommand([]byte(`{"type":"explode"}`)); !errors.Is(err, ErrUnknownMessage) {
		t.Errorf("expected ErrUnknownMessage, got %v", err)
	}
	if _, err := DecodeCommand([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestSubsample(t *testing.T) {
	ps := make([]fluid.Particle, 10)
	for i := range ps {
		ps[i].X = float32(i)
	}

	all := Subsample(nil, ps, 0)
	if len(all) != 20 {
		t.Errorf("expected all 10 particles, got %d values", len(all))
	}

	some := Subsample(nil, ps, 4)
	// stride 3: particles 0, 3, 6, 9
	if len(some) != 8 || some[2] != 3 || some[6] != 9 {
		t.Errorf("unexpected subsample %v", some)
	}
}

func TestHubQueueIsBounded(t *testing.T) {
	h := NewHub(config.StreamConfig{Queue: 2, Interval: 1})
	for i := 0; i < 5; i++ {
		h.handle(Command{Type: TypeForce, Force: fluid.Force{X: float32(i)}})
	}
	if h.Dropped() != 3 {
		t.Errorf("expected 3 dropped, got %d", h.Dropped())
	}

	got := h.Drain(nil)
	if len(got) != 2 || got[0].X != 0 || got[1].X != 1 {
		t.Errorf("drained %+v", got)
	}
	if len(h.Drain(nil)) != 0 {
		t.Error("second drain should be empty")
	}

	h.handle(Command{Type: TypeReset})
	if !h.TakeReset() || h.TakeReset() {
		t.Error("reset should be reported exactly once")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for condition")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubRoundTrip(t *testing.T) {
	h := NewHub(config.StreamConfig{Interval: 2, MaxParticles: 2, Queue: 8})
	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return h.Clients() == 1 })

	// Inbound force reaches the queue
	if err := conn.WriteJSON(map[string]any{"type": "force", "x": 0.5, "y": 0.5, "dx": 0.1}); err != nil {
		t.Fatal(err)
	}
	var forces []fluid.Force
	waitFor(t, func() bool {
		forces = h.Drain(forces)
		return len(forces) == 1
	})
	if forces[0].DX != 0.1 {
		t.Errorf("unexpected force %+v", forces[0])
	}

	// Outbound frame carries stats and subsampled particles
	l, _ := fluid.NewLayout(8, 0)
	snap := fluid.Snapshot{Tick: 4, Field: fluid.NewVelocityField(l), Particles: fluid.NewParticleGrid(2, 0, 1)}
	if !h.ShouldBroadcast(4) || h.ShouldBroadcast(5) {
		t.Error("interval 2 should broadcast on even ticks only")
	}
	h.Broadcast(snap, telemetry.StepStats{Tick: 4, Energy: 0.5})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatal(err)
	}
	if f.Type != TypeFrame || f.Tick != 4 || f.Dim != 8 || f.Stats.Energy != 0.5 {
		t.Errorf("unexpected frame %+v", f)
	}
	if len(f.Particles) != 4 {
		t.Errorf("expected 2 particles after subsampling, got %d values", len(f.Particles))
	}
}

func TestHubStartStopsWithContext(t *testing.T) {
	h := NewHub(config.StreamConfig{Addr: "127.0.0.1:0", Interval: 1, Queue: 1})
	ctx, cancel := context.WithCancel(context.Background())
	if err := h.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if h.Addr() == "" {
		t.Fatal("expected bound address")
	}

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+h.Addr()+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return h.Clients() == 1 })

	cancel()
	waitFor(t, func() bool { return h.Clients() == 0 })
}
