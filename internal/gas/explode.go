package gas

import (
	"github.com/san-kum/dumbbellgas/internal/gate"
	"github.com/san-kum/dumbbellgas/internal/geom"
	"github.com/san-kum/dumbbellgas/internal/particle"
)

// explode resolves a gate at capacity: the trigger is retracted and
// never admitted on this event, then every current occupant of the
// side is interpolated to the current time and either dropped (if it
// drifted out of the gate) or retracted alongside the trigger.
func (s *Simulation) explode(triggerIdx int, side geom.Side) {
	c := s.gateContents(side)
	s.log.Info().Int("trigger", triggerIdx).Str("side", side.String()).Int("occupants", c.Len()).
		Msg("gate capacity exceeded; exploding")

	trigger := &s.particles[triggerIdx]
	for attempt := 0; attempt < 64; attempt++ {
		trigger.Dir = gate.RetractionAngle(s.rng, s.domain.ExplosionDirectionIsRandom, trigger.X, trigger.Dir, side)
		if particle.ComputeNextImpact(s.domain, trigger, s.time) && s.domain.InDomain(trigger.NextX, trigger.NextY) {
			break
		}
	}

	occupants := append([]int(nil), c.Occupants()...)
	var toReinsert []int

	for _, i := range occupants {
		p := &s.particles[i]
		x, y, _ := s.interpolate(i, s.time)

		if !s.domain.InDomain(x, y) {
			s.log.Warn().Int("particle", i).Msg("explosion occupant interpolated outside domain; skipping")
			continue
		}

		if !s.domain.InGate(x, y, side) {
			gate.Depart(c, i)
			s.setGateFlag(i, side, false)
			continue
		}

		p.X, p.Y = x, y
		p.Dir = gate.RetractionAngle(s.rng, s.domain.ExplosionDirectionIsRandom, x, p.Dir, side)
		p.ImpactTime = s.time
		if !particle.ComputeNextImpact(s.domain, p, s.time) {
			s.resetParticleInPlace(i, s.time)
		}
		toReinsert = append(toReinsert, i)
	}

	s.scheduler.BulkReinsert(toReinsert)
}
