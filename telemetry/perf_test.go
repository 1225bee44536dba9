package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/stablefluids/fluid"
	"github.com/pthm-cable/stablefluids/spectral"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(fluid.PhaseAdvect)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(fluid.PhaseFFTForward)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if pc.LastTick() <= 0 {
		t.Error("expected positive last tick duration")
	}
	if _, ok := stats.PhaseAvg[fluid.PhaseAdvect]; !ok {
		t.Error("expected advect phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[fluid.PhaseFFTForward]; !ok {
		t.Error("expected fft_forward phase to be tracked")
	}
}

func TestPerfCollector_TracksSolverPhases(t *testing.T) {
	p := fluid.DefaultParams(16)
	p.ParticlesPerSide = 4
	tr, err := spectral.New(16, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, err := fluid.NewSolver(p, tr, nil)
	if err != nil {
		t.Fatal(err)
	}

	pc := NewPerfCollector(4)
	s.SetPhaseTimer(pc)
	for i := 0; i < 3; i++ {
		pc.StartTick()
		s.Step([]fluid.Force{{X: 0.5, Y: 0.5, DX: 0.01}})
		pc.StartPhase(PhaseTelemetry)
		pc.EndTick()
	}

	stats := pc.Stats()
	for _, phase := range Phases {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("phase %q not recorded", phase)
		}
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(fluid.PhaseUpdate)
		time.Sleep(10 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(fluid.PhaseForce)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(fluid.PhaseDiffuseProject)
		time.Sleep(500 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	fast := stats.PhasePct[fluid.PhaseForce]
	slow := stats.PhasePct[fluid.PhaseDiffuseProject]
	if slow <= fast {
		t.Errorf("expected diffuse_project (%v%%) > force (%v%%)", slow, fast)
	}

	row := stats.ToCSV(50)
	if row.WindowEnd != 50 || row.DiffuseProjPct != slow {
		t.Errorf("CSV row does not carry stats: %+v", row)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] with 16ms frames, got %v", stats.FPS)
	}
}
