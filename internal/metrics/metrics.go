// Package metrics implements Name/Observe/Value/Reset observers over
// the simulator's (time, in_left) event stream, plus running
// statistics backed by gonum/stat for convergence and stationary-
// window comparisons.
package metrics

import (
	"gonum.org/v1/gonum/stat"
)

// Metric is the per-run observer contract.
type Metric interface {
	Name() string
	Observe(t float64, inLeft, numParticles int)
	Value() float64
	Reset()
}

// MassSpread tracks the most recent normalised polarisation
// |2*in_left - N| / N.
type MassSpread struct {
	value float64
}

func NewMassSpread() *MassSpread { return &MassSpread{} }

func (m *MassSpread) Name() string { return "mass_spread" }

func (m *MassSpread) Observe(t float64, inLeft, n int) {
	if n == 0 {
		m.value = 0
		return
	}
	diff := float64(2*inLeft - n)
	if diff < 0 {
		diff = -diff
	}
	m.value = diff / float64(n)
}

func (m *MassSpread) Value() float64 { return m.value }
func (m *MassSpread) Reset()         { m.value = 0 }

// RunningPolarisation keeps every sampled in_left/N ratio and reports
// the running mean and variance via gonum/stat.
type RunningPolarisation struct {
	samples []float64
}

func NewRunningPolarisation() *RunningPolarisation {
	return &RunningPolarisation{}
}

func (r *RunningPolarisation) Name() string { return "running_polarisation" }

func (r *RunningPolarisation) Observe(t float64, inLeft, n int) {
	if n == 0 {
		return
	}
	r.samples = append(r.samples, float64(inLeft)/float64(n))
}

// Value returns the running mean of in_left/N over every sample seen.
func (r *RunningPolarisation) Value() float64 {
	if len(r.samples) == 0 {
		return 0
	}
	return stat.Mean(r.samples, nil)
}

// Variance returns the running sample variance of in_left/N.
func (r *RunningPolarisation) Variance() float64 {
	if len(r.samples) < 2 {
		return 0
	}
	return stat.Variance(r.samples, nil)
}

func (r *RunningPolarisation) Reset() { r.samples = r.samples[:0] }

// TailMean returns the mean of the last window samples, or of all of
// them when window is unset or larger than the series.
func TailMean(values []float64, window int) float64 {
	if len(values) == 0 {
		return 0
	}
	if window <= 0 || window > len(values) {
		window = len(values)
	}
	return stat.Mean(values[len(values)-window:], nil)
}
