// Package particle holds the per-particle state and the next-impact
// planner: the minimum over every boundary kernel's candidate time.
package particle

import (
	"math"

	"github.com/san-kum/dumbbellgas/internal/geom"
	"github.com/san-kum/dumbbellgas/internal/kernel"
)

// State is one of the six phases a particle can be in, driven entirely
// by the events of the stepper.
type State int

const (
	FreeLeft State = iota
	FreeRight
	InGateLeft
	InGateRight
	MidCrossing
	Reset
)

func (s State) String() string {
	switch s {
	case FreeLeft:
		return "free_left"
	case FreeRight:
		return "free_right"
	case InGateLeft:
		return "in_gate_left"
	case InGateRight:
		return "in_gate_right"
	case MidCrossing:
		return "mid_crossing"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

// Particle is identified implicitly by its index in the owning
// simulation's slice.
type Particle struct {
	X, Y         float64
	Dir          float64
	ImpactTime   float64
	NextX, NextY float64
	NextDir      float64
	NextImpact   float64
	InLeftGate   bool
	InRightGate  bool
	State        State
}

// Side reports which reservoir the particle's current position belongs
// to.
func (p *Particle) Side() geom.Side {
	if p.X < 0 {
		return geom.Left
	}
	return geom.Right
}

// ComputeNextImpact evaluates all boundary kernels and keeps the
// earliest positive time, writing the planned next position, direction,
// and time onto the particle. It reports whether a genuine event was
// found; when it returns false the caller must reset the particle (the
// numerical-escape failure mode).
func ComputeNextImpact(d *geom.Domain, p *Particle, now float64) bool {
	candidates := [4]kernel.Hit{
		kernel.TimeToHitBridgeRails(d, p.X, p.Y, p.Dir),
		kernel.TimeToHitCircle(d, p.X, p.Y, p.Dir, geom.Left),
		kernel.TimeToHitCircle(d, p.X, p.Y, p.Dir, geom.Right),
		kernel.TimeToHitGate(d, p.X, p.Y, p.Dir),
	}

	best := candidates[0]
	for _, h := range candidates[1:] {
		if h.Time < best.Time {
			best = h
		}
	}

	// The mid-line is a synthetic resync event: it only wins if nothing
	// else fires first, and only when the particle's path would in fact
	// cross x=0 before any real boundary.
	if mid := kernel.TimeToHitMiddle(d, p.X, p.Y, p.Dir); mid.Time < best.Time {
		best = mid
	}

	if best.Time >= d.MaxPath {
		return false
	}

	bias := geom.Epsilon
	if best.Reflect {
		bias = -geom.Epsilon
	}

	t := best.Time
	p.NextX = p.X + t*math.Cos(p.Dir) + bias*math.Cos(p.Dir)
	p.NextY = p.Y + t*math.Sin(p.Dir) + bias*math.Sin(p.Dir)
	p.NextDir = best.OutDir
	p.NextImpact = now + t
	return true
}
