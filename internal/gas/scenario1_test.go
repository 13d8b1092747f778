package gas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/dumbbellgas/internal/particle"
)

// A single particle launched straight down from the left reservoir's
// center commits a reflected position on the arc, heading straight
// back up, after exactly one update.
func TestScenario1_SingleStraightDownCollision(t *testing.T) {
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
	require.NoError(t, sim.Start(1.0))

	d := sim.Domain()
	sim.particles[0] = particle.Particle{X: d.LeftCenterX, Y: 0, Dir: -math.Pi / 2}
	require.True(t, particle.ComputeNextImpact(d, &sim.particles[0], sim.time))
	sim.scheduler.Reinsert(0, true)

	more, err := sim.Update(0, nil)
	require.NoError(t, err)
	require.True(t, more)

	got := sim.Particle(0)
	require.InDelta(t, d.LeftCenterX, got.X, 1e-9)
	require.InDelta(t, -d.CircleRadius, got.Y, 1e-9)
	require.InDelta(t, math.Pi/2, got.Dir, 1e-9)
}
