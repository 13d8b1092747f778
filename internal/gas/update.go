package gas

import (
	"math"

	"github.com/san-kum/dumbbellgas/internal/gate"
	"github.com/san-kum/dumbbellgas/internal/geom"
	"github.com/san-kum/dumbbellgas/internal/particle"
)

// Update advances the simulation to the earliest scheduled event and
// applies it. When writeDt > 0, interpolated snapshots are
// emitted through w for every multiple of writeDt crossed since the
// last call. It reports false once the scheduler is empty (which only
// happens if every particle has been removed — never in normal
// operation, since every particle always carries a next event).
func (s *Simulation) Update(writeDt float64, w SnapshotWriter) (bool, error) {
	i, ok := s.scheduler.PopMin()
	if !ok {
		return false, nil
	}
	p := &s.particles[i]
	tStar := p.NextImpact

	if writeDt > 0 && w != nil {
		for tStar > s.lastWrittenTime+writeDt {
			sampleTime := s.lastWrittenTime + writeDt
			if err := s.emitSnapshot(sampleTime, w); err != nil {
				return false, err
			}
			s.lastWrittenTime = sampleTime
		}
	}

	// Safety repair: residual floating drift took the particle outside
	// the domain.
	if !s.domain.InDomain(p.NextX, p.NextY) {
		nx, ny := s.domain.NominalRestPosition(p.NextX)
		s.log.Warn().Int("particle", i).Float64("x", p.NextX).Float64("y", p.NextY).
			Msg("next position escaped domain; snapping to nominal rest position")
		p.NextX, p.NextY = nx, ny
	}

	// Mid-crossing counter: update in_left the instant x crosses zero.
	if p.X == 0 {
		s.log.Warn().Int("particle", i).Msg("particle committed at x==0; in_left may be off by one")
	} else if (p.X < 0) != (p.NextX < 0) {
		if p.X < 0 {
			s.inLeft--
		} else {
			s.inLeft++
		}
		s.recordCrossing(p.X < 0)
	}

	// Commit.
	p.X, p.Y = p.NextX, p.NextY
	p.Dir = p.NextDir
	p.ImpactTime = tStar
	s.time = tStar
	s.numCollisions++

	// Gate admission/departure on both sides.
	for _, side := range [2]geom.Side{geom.Left, geom.Right} {
		if s.domain.InGate(p.X, p.Y, side) && isGoingIn(p) {
			s.checkGateAdmission(i, side)
		} else {
			s.checkGateDeparture(i, side)
		}
	}

	s.updateParticleState(i)

	if !particle.ComputeNextImpact(s.domain, p, s.time) {
		s.resetParticleInPlace(i, s.time)
	}
	s.scheduler.Reinsert(i, true)

	if s.scheduler.Len() != len(s.particles) {
		s.log.Error().Int("scheduled", s.scheduler.Len()).Int("particles", len(s.particles)).
			Msg("particle lost from the event order")
		return false, &SimError{Step: s.numCollisions, Time: s.time,
			Message: "particle lost from the event order", Wrapped: ErrInvariantBroken}
	}

	s.measure()
	return true, nil
}

// isGoingIn reports whether the particle, at its current committed
// position, is heading toward the mid-line: x * cos(dir) <= 0, the
// same test on both sides of the domain.
func isGoingIn(p *particle.Particle) bool {
	return p.X*math.Cos(p.Dir) <= 0
}

func (s *Simulation) gateContents(side geom.Side) *gate.Contents {
	if side == geom.Left {
		return s.leftGate
	}
	return s.rightGate
}

func (s *Simulation) setGateFlag(i int, side geom.Side, in bool) {
	if side == geom.Left {
		s.particles[i].InLeftGate = in
	} else {
		s.particles[i].InRightGate = in
	}
}

func (s *Simulation) checkGateAdmission(i int, side geom.Side) {
	c := s.gateContents(side)
	if c.Contains(i) {
		return
	}
	res := gate.Admit(c, i)
	if res.Admitted {
		s.setGateFlag(i, side, true)
		return
	}
	if res.Exploded {
		s.explode(i, side)
	}
}

func (s *Simulation) checkGateDeparture(i int, side geom.Side) {
	c := s.gateContents(side)
	if !c.Contains(i) {
		return
	}
	gate.Depart(c, i)
	s.setGateFlag(i, side, false)
}

func (s *Simulation) updateParticleState(i int) {
	p := &s.particles[i]
	switch {
	case p.InLeftGate:
		p.State = particle.InGateLeft
	case p.InRightGate:
		p.State = particle.InGateRight
	case p.X < 0:
		p.State = particle.FreeLeft
	default:
		p.State = particle.FreeRight
	}
}

// recordCrossing tallies a mid-line crossing by direction of travel
// into the four-slot current counter. Slots 2-3 are reserved for the
// back-channel equivalents of an unimplemented second channel and stay
// zero.
func (s *Simulation) recordCrossing(wasLeft bool) {
	if wasLeft {
		s.currentCounters[0]++ // left -> right
	} else {
		s.currentCounters[1]++ // right -> left
	}
}

// emitSnapshot interpolates every particle's position at t between its
// last committed event and its planned next one, and hands the result
// to w.
func (s *Simulation) emitSnapshot(t float64, w SnapshotWriter) error {
	n := len(s.particles)
	snap := Snapshot{Time: t, X: make([]float64, n), Y: make([]float64, n), Dir: make([]float64, n)}
	for i := range s.particles {
		x, y, dir := s.interpolate(i, t)
		snap.X[i], snap.Y[i], snap.Dir[i] = x, y, dir
	}
	return w.WriteSnapshot(snap)
}

// interpolate linearly interpolates particle i's position between its
// last event (ImpactTime) and its planned next event (NextImpact) at
// time t.
func (s *Simulation) interpolate(i int, t float64) (x, y, dir float64) {
	p := &s.particles[i]
	span := p.NextImpact - p.ImpactTime
	if span <= 0 {
		return p.X, p.Y, p.Dir
	}
	frac := (t - p.ImpactTime) / span
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return p.X + frac*(p.NextX-p.X), p.Y + frac*(p.NextY-p.Y), p.Dir
}
