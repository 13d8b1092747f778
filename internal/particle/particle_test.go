package particle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/dumbbellgas/internal/geom"
)

func mustDomain(t *testing.T) *geom.Domain {
	t.Helper()
	d, err := geom.New(10, 1.0, 0.5, 0.1, false, 3, 3, false, false)
	require.NoError(t, err)
	return d
}

func TestComputeNextImpact_FindsBoundaryEvent(t *testing.T) {
	d := mustDomain(t)
	p := &Particle{X: d.LeftCenterX, Y: 0, Dir: 0}
	ok := ComputeNextImpact(d, p, 0)
	require.True(t, ok)
	require.Greater(t, p.NextImpact, 0.0)
	require.Greater(t, p.NextX, p.X)
}

func TestComputeNextImpact_PositionMovesForward(t *testing.T) {
	d := mustDomain(t)
	p := &Particle{X: d.LeftCenterX, Y: 0, Dir: 0}
	ok := ComputeNextImpact(d, p, 5)
	require.True(t, ok)
	require.Greater(t, p.NextImpact, 5.0)
	require.Greater(t, p.NextX, p.X)
}

func TestSide(t *testing.T) {
	p := &Particle{X: -1}
	require.Equal(t, geom.Left, p.Side())
	p.X = 1
	require.Equal(t, geom.Right, p.Side())
}

func TestStateString(t *testing.T) {
	require.Equal(t, "free_left", FreeLeft.String())
	require.Equal(t, "in_gate_right", InGateRight.String())
	require.Equal(t, "reset", Reset.String())
	require.Equal(t, "unknown", State(99).String())
}
