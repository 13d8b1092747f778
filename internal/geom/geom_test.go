package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_RejectsWideBridge(t *testing.T) {
	_, err := New(10, 1.0, 0.5, 2.5, false, 3, 3, false, false)
	require.ErrorIs(t, err, ErrBridgeTooWide)
}

func TestNew_RejectsChannelLengthWithoutFlatGate(t *testing.T) {
	_, err := New(10, 1.0, 0.5, 0.1, false, 3, 3, false, true)
	require.ErrorIs(t, err, ErrChannelLengthNeedsFlatGate)
}

func TestNew_ValidDomain(t *testing.T) {
	d, err := New(10, 1.0, 0.5, 0.1, false, 3, 3, false, false)
	require.NoError(t, err)
	require.Greater(t, d.BridgeLength, 0.0)
	require.Less(t, d.LeftCenterX, 0.0)
	require.Greater(t, d.RightCenterX, 0.0)
}

func TestCoupleBridge_DefaultLengthensBridge(t *testing.T) {
	// delta is negative, so L = D - delta stretches past the nominal
	// distance until the rails meet the arcs.
	length, dist := CoupleBridge(0.5, 1.0, 0.1, false)
	require.Equal(t, 0.5, dist)
	require.Greater(t, length, 0.5)
}

func TestCoupleBridge_ChannelLengthShrinksDistance(t *testing.T) {
	length, dist := CoupleBridge(0.5, 1.0, 0.1, true)
	require.Equal(t, 0.5, length)
	require.Less(t, dist, 0.5)
}

func TestInCircle(t *testing.T) {
	d, err := New(10, 1.0, 0.5, 0.1, false, 3, 3, false, false)
	require.NoError(t, err)

	require.True(t, d.InCircle(d.LeftCenterX, 0, Left))
	require.False(t, d.InCircle(d.LeftCenterX, 0, Right))
	require.False(t, d.InCircle(0, 0, Left))
}

func TestInBridge(t *testing.T) {
	d, err := New(10, 1.0, 0.5, 0.1, false, 3, 3, false, false)
	require.NoError(t, err)

	require.True(t, d.InBridge(0, 0))
	require.False(t, d.InBridge(0, d.BridgeHeight))
	require.False(t, d.InBridge(d.BridgeLength, 0))
}

func TestInDomain(t *testing.T) {
	d, err := New(10, 1.0, 0.5, 0.1, false, 3, 3, false, false)
	require.NoError(t, err)

	require.True(t, d.InDomain(0, 0))
	require.True(t, d.InDomain(d.LeftCenterX, 0))
	farOut := d.RightCenterX + 2*d.CircleRadius
	require.False(t, d.InDomain(farOut, 0))
}

func TestInGate_ArcGate(t *testing.T) {
	d, err := New(10, 1.0, 0.5, 0.1, false, 3, 3, false, false)
	require.NoError(t, err)

	// Deep in the bridge on the right side: well outside the right
	// circle (whose nearest edge sits at CircleDistance/2), so this is
	// the gate cap.
	x := 0.1
	require.True(t, d.InGate(x, 0, Right))
	require.False(t, d.InGate(-x, 0, Right))
}

func TestInGate_FlatGate(t *testing.T) {
	d, err := New(10, 1.0, 0.5, 0.1, true, 1, 1, false, false)
	require.NoError(t, err)

	require.True(t, d.InGate(d.BridgeLength/2-0.001, 0, Right))
	require.False(t, d.InGate(d.BridgeLength/2+0.5, 0, Right))
}

func TestNominalRestPosition(t *testing.T) {
	d, err := New(10, 1.0, 0.5, 0.1, false, 3, 3, false, false)
	require.NoError(t, err)

	x, y := d.NominalRestPosition(-5)
	require.Equal(t, 0.0, y)
	require.True(t, x < 0)

	x, y = d.NominalRestPosition(5)
	require.Equal(t, 0.0, y)
	require.True(t, x > 0)
}

func TestSide(t *testing.T) {
	require.Equal(t, -1.0, Left.Sign())
	require.Equal(t, 1.0, Right.Sign())
	require.Equal(t, "left", Left.String())
	require.Equal(t, "right", Right.String())
}

func TestCoupleBridge_DeltaIsNegative(t *testing.T) {
	delta := 2*math.Sqrt(1.0*1.0-(0.1/2)*(0.1/2)) - 2*1.0
	require.Less(t, delta, 0.0)
}
