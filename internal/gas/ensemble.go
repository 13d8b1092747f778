package gas

import (
	"sync"

	"github.com/san-kum/dumbbellgas/internal/obslog"
)

// EnsembleResult is one member's outcome: its mass-spread series and
// the reset count it accumulated, compared across the ensemble for
// stationary-window capacity sweeps.
type EnsembleResult struct {
	Seed       int64
	TailWindow int
	MassSpread []float64
	ResetCount int
	Err        error
}

// RunEnsemble runs N independent simulations concurrently, each with
// its own seed derived from baseSeed: a fixed sync.WaitGroup fan-out,
// one goroutine per member, no shared mutable state between members.
// Each member is a fully independent *Simulation; only the fan-out
// itself is concurrent, and a single simulation stays single-threaded.
func RunEnsemble(cfg Config, baseSeed int64, n, steps int, leftRatio float64, log *obslog.Logger) []EnsembleResult {
	results := make([]EnsembleResult, n)
	var wg sync.WaitGroup
	wg.Add(n)

	for member := 0; member < n; member++ {
		go func(member int) {
			defer wg.Done()
			memberCfg := cfg
			memberCfg.Seed = baseSeed + int64(member)

			var l *obslog.Logger
			if log != nil {
				l = log.SpawnForComponent("ensemble")
			}

			sim, err := Setup(memberCfg, l)
			if err != nil {
				results[member] = EnsembleResult{Seed: memberCfg.Seed, Err: err}
				return
			}
			if err := sim.Start(leftRatio); err != nil {
				results[member] = EnsembleResult{Seed: memberCfg.Seed, Err: err}
				return
			}

			for i := 0; i < steps; i++ {
				more, err := sim.Update(0, nil)
				if err != nil {
					results[member] = EnsembleResult{Seed: memberCfg.Seed, Err: err}
					return
				}
				if !more {
					break
				}
			}

			spread := make([]float64, len(sim.TotalLeft))
			n := float64(sim.NumParticles())
			for i, left := range sim.TotalLeft {
				diff := float64(2*left) - n
				if diff < 0 {
					diff = -diff
				}
				spread[i] = diff / n
			}

			results[member] = EnsembleResult{
				Seed:       memberCfg.Seed,
				TailWindow: steps / 10,
				MassSpread: spread,
				ResetCount: sim.ResetCount(),
			}
		}(member)
	}

	wg.Wait()
	return results
}
