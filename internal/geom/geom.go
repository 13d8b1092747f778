// Package geom implements the static, stateless-after-setup predicates
// and fit-up math of the dumbbell domain: two circular reservoirs joined
// by a narrow rectangular bridge.
package geom

import "math"

// Epsilon is the floating tolerance used throughout the core: kernels
// ignore intersections closer than Epsilon, and planned event positions
// are nudged by Epsilon so a particle ends on the intended side of the
// boundary it reached.
const Epsilon = 1e-14

// Side identifies a reservoir / gate half of the domain.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) Sign() float64 {
	if s == Left {
		return -1
	}
	return 1
}

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Domain holds every geometric constant derived at Setup time. It is
// immutable once constructed by New.
type Domain struct {
	NumParticles int

	CircleRadius   float64
	CircleDistance float64
	BridgeHeight   float64
	BridgeLength   float64

	LeftCenterX  float64
	RightCenterX float64

	MaxPath float64

	GateIsFlat                 bool
	LeftGateCapacity           int
	RightGateCapacity          int
	ExplosionDirectionIsRandom bool
	DistanceAsChannelLength    bool
}

// CenterX returns the x-coordinate of the given side's reservoir center.
func (d *Domain) CenterX(s Side) float64 {
	if s == Left {
		return d.LeftCenterX
	}
	return d.RightCenterX
}

// New computes a Domain from the nominal geometry inputs, applying
// CoupleBridge to reconcile the nominal circle distance with the bridge
// rails meeting the reservoir arcs exactly.
func New(numParticles int, radius, distance, height float64, gateIsFlat bool, leftCap, rightCap int, explosionRandom, distanceAsChannel bool) (*Domain, error) {
	if height >= 2*radius {
		return nil, ErrBridgeTooWide
	}
	if distanceAsChannel && !gateIsFlat {
		return nil, ErrChannelLengthNeedsFlatGate
	}

	d := &Domain{
		NumParticles:               numParticles,
		CircleRadius:               radius,
		CircleDistance:             distance,
		BridgeHeight:               height,
		GateIsFlat:                 gateIsFlat,
		LeftGateCapacity:           leftCap,
		RightGateCapacity:          rightCap,
		ExplosionDirectionIsRandom: explosionRandom,
		DistanceAsChannelLength:    distanceAsChannel,
	}

	d.BridgeLength, d.CircleDistance = CoupleBridge(distance, radius, height, distanceAsChannel)

	d.LeftCenterX = -d.CircleDistance/2 - radius
	d.RightCenterX = d.CircleDistance/2 + radius
	d.MaxPath = d.CircleDistance + height + 4*radius

	return d, nil
}

// CoupleBridge reconciles the nominal circle distance D with the known
// radius R and bridge height h so the bridge's flat rails meet the
// reservoir arcs exactly. delta is the (negative) geometric discrepancy
// 2*sqrt(R^2 - (h/2)^2) - 2R.
//
// When distanceAsChannel is false (default), the bridge length is
// L = D - delta, longer than D since delta is negative. When true, L is
// pinned to the nominal D and the circle distance becomes D + delta,
// shorter than D, instead.
func CoupleBridge(distance, radius, height float64, distanceAsChannel bool) (length, effectiveDistance float64) {
	delta := 2*math.Sqrt(radius*radius-(height/2)*(height/2)) - 2*radius
	if distanceAsChannel {
		return distance, distance + delta
	}
	return distance - delta, distance
}

// InCircle reports whether (x, y) lies strictly inside the given side's
// reservoir.
func (d *Domain) InCircle(x, y float64, s Side) bool {
	cx := d.CenterX(s)
	dx := x - cx
	return dx*dx+y*y < d.CircleRadius*d.CircleRadius
}

// InBridge reports whether (x, y) lies within the bridge rectangle.
func (d *Domain) InBridge(x, y float64) bool {
	return math.Abs(x) <= d.BridgeLength/2 && math.Abs(y) <= d.BridgeHeight/2
}

// InDomain reports whether (x, y) is anywhere inside the dumbbell.
func (d *Domain) InDomain(x, y float64) bool {
	if d.InBridge(x, y) {
		return true
	}
	side := Left
	if x >= 0 {
		side = Right
	}
	return d.InCircle(x, y, side)
}

// InGate reports whether (x, y) lies in the given side's gate region:
// when GateIsFlat, the side's half of the strip |x| <= L/2 (between the
// mid-line and the flat aperture x = +-L/2); otherwise the part of the
// side's half-plane outside the reservoir circle, i.e. the cap of the
// bridge rectangle carved out of it.
func (d *Domain) InGate(x, y float64, s Side) bool {
	if s.Sign()*x < 0 {
		return false
	}
	if d.GateIsFlat {
		return math.Abs(x) <= d.BridgeLength/2
	}
	return !d.InCircle(x, y, s)
}

// NominalRestPosition returns the snap-to position used to repair a
// particle whose computed next position escaped the domain.
func (d *Domain) NominalRestPosition(x float64) (float64, float64) {
	if x < 0 {
		return -(d.CircleDistance/2 + d.CircleRadius), 0
	}
	return d.CircleDistance/2 + d.CircleRadius, 0
}
