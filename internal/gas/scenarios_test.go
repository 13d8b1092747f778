package gas_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dumbbellgas/internal/gas"
	"github.com/san-kum/dumbbellgas/internal/geom"
	"github.com/san-kum/dumbbellgas/internal/kernel"
	"github.com/san-kum/dumbbellgas/internal/metrics"
)

// Boundary behaviours: closed-form checks against the kernel directly,
// independent of the stepper.
var _ = Describe("boundary behaviours", func() {
	var d *geom.Domain

	BeforeEach(func() {
		var err error
		d, err = geom.New(1, 1.0, 0.5, 0.1, false, 1, 1, false, false)
		Expect(err).NotTo(HaveOccurred())
	})

	It("launches a particle from the left reservoir center straight down and hits the arc at distance R", func() {
		hit := kernel.TimeToHitCircle(d, d.LeftCenterX, 0, -math.Pi/2, geom.Left)
		Expect(hit.Time).To(BeNumerically("~", d.CircleRadius, 1e-9))
		Expect(hit.OutDir).To(BeNumerically("~", math.Pi/2, 1e-9))
	})

	It("launches a particle from (0,0) straight up and hits the upper rail at distance h/2", func() {
		hit := kernel.TimeToHitBridgeRails(d, 0, 0, math.Pi/2)
		Expect(hit.Time).To(BeNumerically("~", d.BridgeHeight/2, 1e-9))
		Expect(hit.OutDir).To(BeNumerically("~", 3*math.Pi/2, 1e-9))
	})

	It("hits the top-left bridge corner at distance 0.1*sqrt(2) heading -pi/4", func() {
		x := -d.BridgeLength/2 - 0.1
		y := d.BridgeHeight/2 + 0.1
		rail := kernel.TimeToHitBridgeRails(d, x, y, -math.Pi/4)
		Expect(rail.Time).To(BeNumerically("~", 0.1*math.Sqrt2, 1e-9))
	})

	It("returns the original direction after reflecting twice off the same surface", func() {
		in := 0.37
		normal := math.Pi / 2
		out := kernel.Reflect(kernel.Reflect(in, normal), normal)
		Expect(math.Mod(out-in, 2*math.Pi)).To(BeNumerically("~", 0, 1e-9))
	})
})

// The single straight-down collision and the inscribed-square
// trajectory are covered by scenario1_test.go and scenario2_test.go,
// which need package-internal access to force the particle's starting
// state.

var _ = Describe("fully left-polarised start", func() {
	It("starts with total_left == N and keeps every particle in-domain", func() {
		cfg := gas.DefaultConfig()
		cfg.NumParticles = 200
		cfg.LeftGateCapacity = 1
		cfg.RightGateCapacity = 1
		cfg.Seed = 11

		sim, err := gas.Setup(cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(sim.Start(1.0)).To(Succeed())
		Expect(sim.InLeft()).To(Equal(cfg.NumParticles))

		for i := 0; i < 5000 && sim.Time() < 40; i++ {
			more, err := sim.Update(0, nil)
			Expect(err).NotTo(HaveOccurred())
			if !more {
				break
			}
		}

		for i := 0; i < sim.NumParticles(); i++ {
			p := sim.Particle(i)
			Expect(sim.Domain().InDomain(p.X, p.Y)).To(BeTrue())
		}
	})
})

// Symmetric gate capacities keep in_left/N centered on 0.5 with no
// sustained polarisation.
var _ = Describe("symmetric capacities", func() {
	It("keeps the running mean of in_left/N close to 0.5", func() {
		cfg := gas.DefaultConfig()
		cfg.NumParticles = 200
		cfg.LeftGateCapacity = 3
		cfg.RightGateCapacity = 3
		cfg.ExplosionDirectionIsRandom = true
		cfg.Seed = 21

		sim, err := gas.Setup(cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(sim.Start(0.5)).To(Succeed())

		for i := 0; i < 20000; i++ {
			more, err := sim.Update(0, nil)
			Expect(err).NotTo(HaveOccurred())
			if !more {
				break
			}
		}

		rp := metrics.NewRunningPolarisation()
		for k, left := range sim.TotalLeft {
			rp.Observe(sim.MeasuringTimes[k], left, sim.NumParticles())
		}
		Expect(rp.Value()).To(BeNumerically("~", 0.5, 0.1))
	})
})

// An asymmetric gate (wide on the left, narrow on the right) funnels
// mass toward the left over time.
var _ = Describe("asymmetric capacities", func() {
	It("drifts the tail-window mean of in_left/N above 0.5", func() {
		cfg := gas.DefaultConfig()
		cfg.NumParticles = 200
		cfg.LeftGateCapacity = 15
		cfg.RightGateCapacity = 2
		cfg.ExplosionDirectionIsRandom = true
		cfg.Seed = 31

		sim, err := gas.Setup(cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(sim.Start(0.5)).To(Succeed())

		for i := 0; i < 20000; i++ {
			more, err := sim.Update(0, nil)
			Expect(err).NotTo(HaveOccurred())
			if !more {
				break
			}
		}

		n := float64(sim.NumParticles())
		ratios := make([]float64, len(sim.TotalLeft))
		for k, left := range sim.TotalLeft {
			ratios[k] = float64(left) / n
		}
		Expect(metrics.TailMean(ratios, len(ratios)/5)).To(BeNumerically(">", 0.5))
	})
})

// Widening the capacity gap increases the stationary-window average
// mass spread.
var _ = Describe("capacity gap sweep", func() {
	It("reports a larger tail mass spread for a wider capacity gap", func() {
		run := func(leftCap, rightCap int, seed int64) float64 {
			cfg := gas.DefaultConfig()
			cfg.NumParticles = 200
			cfg.LeftGateCapacity = leftCap
			cfg.RightGateCapacity = rightCap
			cfg.ExplosionDirectionIsRandom = true
			cfg.Seed = seed

			sim, err := gas.Setup(cfg, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(sim.Start(0.5)).To(Succeed())

			for i := 0; i < 20000; i++ {
				more, err := sim.Update(0, nil)
				Expect(err).NotTo(HaveOccurred())
				if !more {
					break
				}
			}

			n := float64(sim.NumParticles())
			spread := make([]float64, len(sim.TotalLeft))
			for k, left := range sim.TotalLeft {
				spread[k] = math.Abs(2*float64(left)-n) / n
			}
			return metrics.TailMean(spread, len(spread)/5)
		}

		mild := run(4, 3, 41)
		extreme := run(20, 1, 41)
		Expect(extreme).To(BeNumerically(">=", mild))
	})
})
