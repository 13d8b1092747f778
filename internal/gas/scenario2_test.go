package gas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/dumbbellgas/internal/particle"
)

// A particle started at the left-middle of the inscribed square of the
// right reservoir, heading straight up, bounces through all four
// corners in four updates, ending on the corner directly below its
// start and heading back up toward it, cycling the directions
// {0, 3pi/2, pi, pi/2}.
func TestScenario2_InscribedSquareTrajectory(t *testing.T) {
	cfg := Config{
		NumParticles:      1,
		BridgeHeight:      0.1,
		CircleRadius:      1,
		CircleDistance:    0.5,
		LeftGateCapacity:  1,
		RightGateCapacity: 1,
	}
	sim, err := Setup(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, sim.Start(0))

	d := sim.Domain()
	r := d.CircleRadius
	startX := d.RightCenterX - r/math.Sqrt2
	sim.particles[0] = particle.Particle{X: startX, Y: 0, Dir: math.Pi / 2}
	require.True(t, particle.ComputeNextImpact(d, &sim.particles[0], sim.time))
	sim.scheduler.Reinsert(0, true)

	wantDirs := []float64{0, 3 * math.Pi / 2, math.Pi, math.Pi / 2}
	wantPos := [][2]float64{
		{d.RightCenterX - r/math.Sqrt2, r / math.Sqrt2},
		{d.RightCenterX + r/math.Sqrt2, r / math.Sqrt2},
		{d.RightCenterX + r/math.Sqrt2, -r / math.Sqrt2},
		{d.RightCenterX - r/math.Sqrt2, -r / math.Sqrt2},
	}

	for step := 0; step < 4; step++ {
		more, err := sim.Update(0, nil)
		require.NoError(t, err)
		require.True(t, more)

		p := sim.Particle(0)
		require.InDelta(t, wantPos[step][0], p.X, 1e-9, "corner %d x", step)
		require.InDelta(t, wantPos[step][1], p.Y, 1e-9, "corner %d y", step)
		require.InDelta(t, wantDirs[step], p.Dir, 1e-9, "corner %d dir", step)
	}

	// The fourth corner is vertically below the start; one more leg of
	// length r*sqrt(2) closes the square.
	p := sim.Particle(0)
	require.InDelta(t, startX, p.X, 1e-9)
}
