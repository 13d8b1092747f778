// Package gas implements the gate protocol and event stepper: the
// Simulation type that ties geometry, the ray-casting kernel, the
// per-particle planner, the event scheduler, and gate admission into a
// single Update step.
package gas

import (
	"math"
	"math/rand"

	"github.com/san-kum/dumbbellgas/internal/gate"
	"github.com/san-kum/dumbbellgas/internal/geom"
	"github.com/san-kum/dumbbellgas/internal/obslog"
	"github.com/san-kum/dumbbellgas/internal/particle"
	"github.com/san-kum/dumbbellgas/internal/sched"
)

// Snapshot is one interpolated sample of every particle's state,
// emitted by Update when write_dt > 0.
type Snapshot struct {
	Time float64
	X    []float64
	Y    []float64
	Dir  []float64
}

// SnapshotWriter receives snapshots as Update produces them; results.dat
// output lives in internal/store, which implements this interface.
type SnapshotWriter interface {
	WriteSnapshot(Snapshot) error
}

// Simulation is the event-driven kinetic simulator core.
type Simulation struct {
	domain    *geom.Domain
	particles []particle.Particle
	scheduler *sched.Scheduler
	leftGate  *gate.Contents
	rightGate *gate.Contents

	rng *rand.Rand
	log *obslog.Logger

	time            float64
	inLeft          int
	numCollisions   int
	resetCounter    int
	lastWrittenTime float64
	currentCounters [4]int // LL->R, R->L, and back-channel equivalents

	MeasuringTimes []float64
	TotalLeft      []int
}

// Setup validates cfg and allocates the domain, particle slice, gate
// contents, and scheduler. It does not place any particles; call Start
// for that.
func Setup(cfg Config, log *obslog.Logger) (*Simulation, error) {
	if cfg.SecondLength != 0 || cfg.SecondWidth != 0 {
		return nil, &SimError{Message: "second_length/second_width set", Wrapped: ErrSecondChannelUnsupported}
	}

	d, err := geom.New(cfg.NumParticles, cfg.CircleRadius, cfg.CircleDistance, cfg.BridgeHeight,
		cfg.GateIsFlat, cfg.LeftGateCapacity, cfg.RightGateCapacity,
		cfg.ExplosionDirectionIsRandom, cfg.DistanceAsChannelLength)
	if err != nil {
		return nil, &SimError{Message: "geometry rejected", Wrapped: ErrInvalidConfig}
	}

	if log == nil {
		log = obslog.New(obslog.Options{})
	}

	s := &Simulation{
		domain:    d,
		particles: make([]particle.Particle, cfg.NumParticles),
		leftGate:  gate.NewContents(cfg.LeftGateCapacity),
		rightGate: gate.NewContents(cfg.RightGateCapacity),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		log:       log.SpawnForComponent("gas"),
	}
	if cfg.ExpectedCollisions > 0 {
		s.MeasuringTimes = make([]float64, 0, cfg.ExpectedCollisions)
		s.TotalLeft = make([]int, 0, cfg.ExpectedCollisions)
	}
	s.scheduler = sched.New(cfg.NumParticles, func(i int) float64 { return s.particles[i].NextImpact })

	return s, nil
}

// Domain exposes the computed geometry, mainly for tests and callers
// that want to render the chamber.
func (s *Simulation) Domain() *geom.Domain { return s.domain }

// Time returns the simulator's current event time.
func (s *Simulation) Time() float64 { return s.time }

// InLeft returns the cached left-side population.
func (s *Simulation) InLeft() int { return s.inLeft }

// NumParticles returns the configured particle count.
func (s *Simulation) NumParticles() int { return len(s.particles) }

// Particle exposes a read-only snapshot of particle i's last-committed
// state, for tests and rendering.
func (s *Simulation) Particle(i int) particle.Particle { return s.particles[i] }

// NumCollisions returns the number of events processed so far.
func (s *Simulation) NumCollisions() int { return s.numCollisions }

// ResetCount returns how many times a particle has been reset after a
// numerical escape.
func (s *Simulation) ResetCount() int { return s.resetCounter }

// CurrentCounters returns the signed mid-line crossing counts by
// direction of travel.
func (s *Simulation) CurrentCounters() [4]int { return s.currentCounters }

// GateOccupancy returns the current occupant count and capacity of the
// given side's gate, for rendering and telemetry.
func (s *Simulation) GateOccupancy(side geom.Side) (occupants, capacity int) {
	c := s.gateContents(side)
	return c.Len(), c.Capacity
}

// Start places every particle by rejection sampling: uniformly in the
// axis-aligned bounding box of its target side's circle, until it lands
// in that circle but not in the gate or bridge. leftRatio is the
// fraction of particles started on the left.
func (s *Simulation) Start(leftRatio float64) error {
	if leftRatio < 0 || leftRatio > 1 {
		return &SimError{Message: "left_ratio out of [0,1]", Wrapped: ErrInvalidConfig}
	}

	n := len(s.particles)
	numLeft := int(math.Round(leftRatio * float64(n)))

	for i := 0; i < n; i++ {
		side := geom.Right
		if i < numLeft {
			side = geom.Left
		}
		x, y := s.sampleStartPosition(side)
		dir := s.rng.Float64()*2*math.Pi - math.Pi

		s.particles[i] = particle.Particle{X: x, Y: y, Dir: dir, ImpactTime: 0}
		if !particle.ComputeNextImpact(s.domain, &s.particles[i], 0) {
			s.resetParticleInPlace(i, 0)
		}
		s.scheduler.Insert(i)
	}

	s.inLeft = numLeft
	s.lastWrittenTime = 0
	s.measure()
	return nil
}

// sampleStartPosition rejection-samples a point in side's reservoir
// that is not inside the bridge or gate.
func (s *Simulation) sampleStartPosition(side geom.Side) (float64, float64) {
	cx := s.domain.CenterX(side)
	r := s.domain.CircleRadius
	for {
		x := cx + (s.rng.Float64()*2-1)*r
		y := (s.rng.Float64()*2 - 1) * r
		if !s.domain.InCircle(x, y, side) {
			continue
		}
		if s.domain.InBridge(x, y) || s.domain.InGate(x, y, side) {
			continue
		}
		return x, y
	}
}

// resetParticleInPlace recovers from a numerical escape: resample the
// particle's position via rejection sampling and retry
// ComputeNextImpact, bounded to avoid spinning forever on a badly
// conditioned geometry.
func (s *Simulation) resetParticleInPlace(i int, now float64) {
	s.resetCounter++
	s.log.Warn().Int("particle", i).Float64("time", now).
		Msg("no next event within max_path; resetting particle")
	// A reset rate above ~1e-3 per event is a symptom of badly
	// conditioned geometry, not an occasional numeric glitch.
	if s.numCollisions > 1000 && s.resetCounter*1000 > s.numCollisions {
		s.log.Warn().Int("resets", s.resetCounter).Int("events", s.numCollisions).
			Msg("reset rate exceeds 1e-3 per event; geometry may be badly conditioned")
	}
	const maxRetries = 64
	for attempt := 0; attempt < maxRetries; attempt++ {
		side := geom.Right
		if s.particles[i].X < 0 {
			side = geom.Left
		}
		x, y := s.sampleStartPosition(side)
		dir := s.rng.Float64()*2*math.Pi - math.Pi
		s.particles[i].X, s.particles[i].Y = x, y
		s.particles[i].Dir = dir
		s.particles[i].ImpactTime = now
		s.particles[i].State = particle.Reset
		if particle.ComputeNextImpact(s.domain, &s.particles[i], now) {
			// The reset state is transient: a successfully resampled
			// particle goes straight back to free flight on its side.
			if side == geom.Left {
				s.particles[i].State = particle.FreeLeft
			} else {
				s.particles[i].State = particle.FreeRight
			}
			return
		}
	}
	s.log.Error().Int("particle", i).Msg("exhausted reset retries; leaving degenerate next-impact in place")
}

func (s *Simulation) measure() {
	s.MeasuringTimes = append(s.MeasuringTimes, s.time)
	s.TotalLeft = append(s.TotalLeft, s.inLeft)
}

// MassSpread returns the normalised polarisation |2*total_left - N| / N
// for the most recent measurement.
func (s *Simulation) MassSpread() float64 {
	if len(s.TotalLeft) == 0 {
		return 0
	}
	n := float64(len(s.particles))
	last := float64(s.TotalLeft[len(s.TotalLeft)-1])
	return math.Abs(2*last-n) / n
}

// TotalsWriter receives the measuring-time/total-left series Finish
// produces; internal/store implements this the same way it implements
// SnapshotWriter for Update.
type TotalsWriter interface {
	WriteTotals(measuringTimes []float64, totalLeft []int, numParticles int) error
}

// Summary is the final per-run accounting Finish hands back, for a
// driver to fold into its own output (e.g. a <id>.out row) without
// reaching into the simulation's internal accumulators.
type Summary struct {
	MassSpread float64
	Counters   [4]int
	ResetCount int
}

// Finish closes out the Setup/Start/Update/Finish lifecycle:
// it flushes the measuring-time/total-left series to w exactly once,
// mirroring Update's writer-injection pattern, and returns the run's
// final accounting. w may be nil if the driver doesn't want totals.dat.
func (s *Simulation) Finish(w TotalsWriter) (Summary, error) {
	if w != nil {
		if err := w.WriteTotals(s.MeasuringTimes, s.TotalLeft, len(s.particles)); err != nil {
			return Summary{}, err
		}
	}
	return Summary{
		MassSpread: s.MassSpread(),
		Counters:   s.currentCounters,
		ResetCount: s.resetCounter,
	}, nil
}
