package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMassSpread(t *testing.T) {
	m := NewMassSpread()
	require.Equal(t, "mass_spread", m.Name())

	m.Observe(0, 50, 100)
	require.InDelta(t, 0.0, m.Value(), 1e-12)

	m.Observe(1, 90, 100)
	require.InDelta(t, 0.8, m.Value(), 1e-12)

	m.Reset()
	require.Equal(t, 0.0, m.Value())
}

func TestMassSpread_ZeroParticles(t *testing.T) {
	m := NewMassSpread()
	m.Observe(0, 0, 0)
	require.Equal(t, 0.0, m.Value())
}

func TestRunningPolarisation(t *testing.T) {
	r := NewRunningPolarisation()
	require.Equal(t, "running_polarisation", r.Name())

	r.Observe(0, 25, 100)
	r.Observe(1, 75, 100)
	require.InDelta(t, 0.5, r.Value(), 1e-9)
	require.Greater(t, r.Variance(), 0.0)

	r.Reset()
	require.Equal(t, 0.0, r.Value())
}

func TestTailMean(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	require.InDelta(t, 4.5, TailMean(values, 2), 1e-9)
	require.InDelta(t, 3.0, TailMean(values, 100), 1e-9)
	require.InDelta(t, 3.0, TailMean(values, 0), 1e-9)
	require.Equal(t, 0.0, TailMean(nil, 3))
}
