package gas

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/dumbbellgas/internal/geom"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.NumParticles = 20
	cfg.Seed = 7
	return cfg
}

func TestSetup_RejectsSecondChannel(t *testing.T) {
	cfg := testConfig()
	cfg.SecondLength = 1
	_, err := Setup(cfg, nil)
	require.ErrorIs(t, err, ErrSecondChannelUnsupported)
}

func TestSetup_RejectsBadGeometry(t *testing.T) {
	cfg := testConfig()
	cfg.BridgeHeight = 3 // >= 2*CircleRadius
	_, err := Setup(cfg, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestStart_PlacesEveryParticleInDomain(t *testing.T) {
	sim, err := Setup(testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, sim.Start(0.5))

	for i := 0; i < sim.NumParticles(); i++ {
		p := sim.Particle(i)
		require.True(t, sim.Domain().InDomain(p.X, p.Y))
		require.False(t, sim.Domain().InBridge(p.X, p.Y))
	}
}

func TestStart_RejectsBadLeftRatio(t *testing.T) {
	sim, err := Setup(testConfig(), nil)
	require.NoError(t, err)
	require.ErrorIs(t, sim.Start(1.5), ErrInvalidConfig)
	require.ErrorIs(t, sim.Start(-0.1), ErrInvalidConfig)
}

func TestStart_HonoursLeftRatio(t *testing.T) {
	sim, err := Setup(testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, sim.Start(1.0))
	require.Equal(t, sim.NumParticles(), sim.InLeft())
}

func TestUpdate_AdvancesTimeMonotonically(t *testing.T) {
	sim, err := Setup(testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, sim.Start(0.5))

	last := sim.Time()
	for i := 0; i < 500; i++ {
		more, err := sim.Update(0, nil)
		require.NoError(t, err)
		if !more {
			break
		}
		require.GreaterOrEqual(t, sim.Time(), last)
		last = sim.Time()
	}
	require.Greater(t, sim.NumCollisions(), 0)
}

func TestUpdate_KeepsParticlesInDomain(t *testing.T) {
	sim, err := Setup(testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, sim.Start(0.5))

	for i := 0; i < 2000; i++ {
		more, err := sim.Update(0, nil)
		require.NoError(t, err)
		if !more {
			break
		}
	}

	for i := 0; i < sim.NumParticles(); i++ {
		p := sim.Particle(i)
		require.True(t, sim.Domain().InDomain(p.X, p.Y))
	}
}

func TestUpdate_ConservesTotalParticleCount(t *testing.T) {
	sim, err := Setup(testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, sim.Start(0.5))

	n := sim.NumParticles()
	for i := 0; i < 1000; i++ {
		more, err := sim.Update(0, nil)
		require.NoError(t, err)
		if !more {
			break
		}
		total := sim.InLeft()
		right := n - total
		require.GreaterOrEqual(t, total, 0)
		require.GreaterOrEqual(t, right, 0)
		require.Equal(t, n, total+right)
	}
}

func TestUpdate_SameSeedSameEventStream(t *testing.T) {
	runSeries := func() ([]float64, []int) {
		sim, err := Setup(testConfig(), nil)
		require.NoError(t, err)
		require.NoError(t, sim.Start(0.5))
		for i := 0; i < 2000; i++ {
			more, err := sim.Update(0, nil)
			require.NoError(t, err)
			if !more {
				break
			}
		}
		return sim.MeasuringTimes, sim.TotalLeft
	}

	timesA, leftA := runSeries()
	timesB, leftB := runSeries()
	require.Equal(t, timesA, timesB)
	require.Equal(t, leftA, leftB)
}

func TestUpdate_NextImpactNeverBeforeNow(t *testing.T) {
	sim, err := Setup(testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, sim.Start(0.5))

	for i := 0; i < 1000; i++ {
		more, err := sim.Update(0, nil)
		require.NoError(t, err)
		if !more {
			break
		}
	}
	for i := range sim.particles {
		require.GreaterOrEqual(t, sim.particles[i].NextImpact, sim.time)
	}
}

func TestMassSpread_ZeroWhenBalanced(t *testing.T) {
	sim, err := Setup(testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, sim.Start(0.5))
	require.InDelta(t, 0.0, sim.MassSpread(), 1e-9)
}

func TestMassSpread_OneWhenAllLeft(t *testing.T) {
	sim, err := Setup(testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, sim.Start(1.0))
	require.InDelta(t, 1.0, sim.MassSpread(), 1e-9)
}

type recordingTotalsWriter struct {
	measuringTimes []float64
	totalLeft      []int
	numParticles   int
}

func (w *recordingTotalsWriter) WriteTotals(measuringTimes []float64, totalLeft []int, numParticles int) error {
	w.measuringTimes = measuringTimes
	w.totalLeft = totalLeft
	w.numParticles = numParticles
	return nil
}

func TestFinish_WritesTotalsAndReturnsSummary(t *testing.T) {
	sim, err := Setup(testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, sim.Start(0.5))

	for i := 0; i < 200; i++ {
		more, err := sim.Update(0, nil)
		require.NoError(t, err)
		if !more {
			break
		}
	}

	w := &recordingTotalsWriter{}
	summary, err := sim.Finish(w)
	require.NoError(t, err)
	require.Equal(t, sim.MeasuringTimes, w.measuringTimes)
	require.Equal(t, sim.TotalLeft, w.totalLeft)
	require.Equal(t, sim.NumParticles(), w.numParticles)
	require.InDelta(t, sim.MassSpread(), summary.MassSpread, 1e-12)
	require.Equal(t, sim.CurrentCounters(), summary.Counters)
	require.Equal(t, sim.ResetCount(), summary.ResetCount)
}

func TestFinish_NilWriterSkipsTotals(t *testing.T) {
	sim, err := Setup(testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, sim.Start(0.5))

	_, err = sim.Finish(nil)
	require.NoError(t, err)
}

func TestGateOccupancy_NeverExceedsCapacity(t *testing.T) {
	cfg := testConfig()
	cfg.LeftGateCapacity = 1
	cfg.RightGateCapacity = 1
	sim, err := Setup(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, sim.Start(0.5))

	for i := 0; i < 2000; i++ {
		more, err := sim.Update(0, nil)
		require.NoError(t, err)
		if !more {
			break
		}
		leftOcc, leftCap := sim.GateOccupancy(geom.Left)
		rightOcc, rightCap := sim.GateOccupancy(geom.Right)
		require.LessOrEqual(t, leftOcc, leftCap)
		require.LessOrEqual(t, rightOcc, rightCap)
	}
}
