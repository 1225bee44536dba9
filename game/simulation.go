package game

import (
	"time"

	"github.com/pthm-cable/stablefluids/fluid"
	"github.com/pthm-cable/stablefluids/telemetry"
)

// step runs one solver tick with every force queued since the last one.
func (g *Game) step() {
	g.queueScripted()
	if g.hub != nil {
		if g.hub.TakeReset() {
			g.reset()
		}
		g.forces = g.hub.Drain(g.forces)
	}

	g.perf.StartTick()
	start := time.Now()
	g.solver.Step(g.forces)
	elapsed := time.Since(start)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordStep(len(g.forces), elapsed)
	g.forces = g.forces[:0]

	g.flushTelemetry()
	g.broadcast()
	g.perf.EndTick()
}

// queueScripted adds the configured impulses whose tick is the one about to
// run.
func (g *Game) queueScripted() {
	tick := g.solver.Tick()
	for g.nextImpulse < len(g.impulses) && g.impulses[g.nextImpulse].Tick <= tick {
		imp := g.impulses[g.nextImpulse]
		g.nextImpulse++
		if imp.Tick < tick {
			continue
		}
		g.forces = append(g.forces, fluid.Force{
			X:  float32(imp.X),
			Y:  float32(imp.Y),
			DX: float32(imp.DX),
			DY: float32(imp.DY),
		})
	}
}

// broadcast sends a frame to stream clients on broadcast ticks.
func (g *Game) broadcast() {
	if g.hub == nil || g.hub.Clients() == 0 || !g.hub.ShouldBroadcast(g.solver.Tick()) {
		return
	}
	g.solver.SnapshotInto(&g.snap)
	stats := g.lastStats
	stats.Tick = g.snap.Tick
	g.hub.Broadcast(g.snap, stats)
}
