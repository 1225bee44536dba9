// Calibrate finds the viscosity at which a single shear mode decays to a
// target fraction of its amplitude after a number of solver steps.
//
// Usage: go run ./cmd/calibrate -k 8 -target 0.5 -steps 100 -output out/
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/stablefluids/config"
)

// evalRecord is one row of calibrate_log.csv.
type evalRecord struct {
	Eval      int     `csv:"eval"`
	Viscosity float64 `csv:"viscosity"`
	Ratio     float64 `csv:"ratio"`
	Loss      float64 `csv:"loss"`
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	k := flag.Int("k", 8, "Shear mode wavenumber")
	target := flag.Float64("target", 0.5, "Amplitude fraction left after -steps")
	steps := flag.Int("steps", 100, "Solver steps per evaluation")
	maxEvals := flag.Int("max-evals", 60, "Maximum number of evaluations")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if !(*target > 0 && *target < 1) {
		log.Fatalf("--target must be in (0, 1), got %g", *target)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	evaluator, err := NewDecayEvaluator(baseCfg, *k, *steps)
	if err != nil {
		log.Fatalf("failed to build evaluator: %v", err)
	}
	defer evaluator.Close()

	var records []evalRecord
	bestLoss := math.Inf(1)
	bestVisc := baseCfg.Solver.Viscosity
	startTime := time.Now()

	// Search in log10 space so the step size is relative
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			visc := math.Pow(10, x[0])
			ratio, err := evaluator.Ratio(visc)
			if err != nil {
				return math.Inf(1)
			}
			loss := math.Log(ratio / *target)
			loss *= loss

			records = append(records, evalRecord{Eval: len(records) + 1, Viscosity: visc, Ratio: ratio, Loss: loss})
			if loss < bestLoss {
				bestLoss, bestVisc = loss, visc
			}
			fmt.Printf("Eval %d/%d: viscosity=%.6g ratio=%.4f loss=%.3g\n",
				len(records), *maxEvals, visc, ratio, loss)
			return loss
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 10,
		},
	}

	fmt.Printf("Calibrating viscosity: dim=%d k=%d target=%.3f steps=%d\n",
		baseCfg.Solver.Dim, *k, *target, *steps)

	x0 := []float64{math.Log10(math.Max(baseCfg.Solver.Viscosity, 1e-6))}
	if _, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{}); err != nil {
		log.Printf("optimization ended: %v", err)
	}

	fmt.Printf("\nCalibration complete after %d evaluations in %s\n", len(records), time.Since(startTime).Round(time.Millisecond))
	fmt.Printf("Best viscosity: %.6g (closed form %.6g)\n", bestVisc, closedForm(evaluator, *target))

	logPath := filepath.Join(*outputDir, "calibrate_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	if err := gocsv.MarshalFile(&records, logFile); err != nil {
		log.Printf("failed to write log: %v", err)
	}
	logFile.Close()

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	bestCfg.Solver.Viscosity = bestVisc

	configOutPath := filepath.Join(*outputDir, "calibrated.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Fatalf("failed to write calibrated config: %v", err)
	}
	fmt.Printf("Calibrated config saved to: %s\n", configOutPath)
}

// closedForm inverts Predicted for the target ratio.
func closedForm(de *DecayEvaluator, target float64) float64 {
	kk := float64(de.k * de.k)
	return (math.Pow(target, -1/float64(de.steps)) - 1) / (float64(de.params.DT) * kk)
}
