// Package gate implements the admission/departure/explosion protocol
// that caps simultaneous occupancy of each side's gate aperture.
package gate

import (
	"math"
	"math/rand"

	"github.com/san-kum/dumbbellgas/internal/geom"
)

// Contents holds the ordered (insertion-order) occupant list for one
// gate side, plus its capacity.
type Contents struct {
	Capacity  int
	occupants []int // particle indices, insertion order
	member    map[int]bool
}

// NewContents builds an empty gate side with the given capacity.
func NewContents(capacity int) *Contents {
	return &Contents{Capacity: capacity, member: make(map[int]bool)}
}

func (c *Contents) Len() int            { return len(c.occupants) }
func (c *Contents) Contains(i int) bool { return c.member[i] }
func (c *Contents) Occupants() []int    { return c.occupants }
func (c *Contents) Full() bool          { return len(c.occupants) >= c.Capacity }

func (c *Contents) add(i int) {
	c.occupants = append(c.occupants, i)
	c.member[i] = true
}

func (c *Contents) remove(i int) {
	if !c.member[i] {
		return
	}
	delete(c.member, i)
	for k, v := range c.occupants {
		if v == i {
			c.occupants = append(c.occupants[:k], c.occupants[k+1:]...)
			break
		}
	}
}

// AdmissionResult tells the caller what happened so it can update
// per-particle gate flags and, on explosion, drive the retraction pass.
type AdmissionResult struct {
	Admitted bool
	Exploded bool
}

// Admit adds the trigger if the side isn't at capacity, otherwise
// reports an explosion for the caller to resolve. The trigger itself
// is never added on the event that explodes the gate, so capacity is a
// hard ceiling at every instant.
func Admit(c *Contents, trigger int) AdmissionResult {
	if c.Contains(trigger) {
		return AdmissionResult{}
	}
	if !c.Full() {
		c.add(trigger)
		return AdmissionResult{Admitted: true}
	}
	return AdmissionResult{Exploded: true}
}

// Depart removes the particle if present.
func Depart(c *Contents, i int) {
	c.remove(i)
}

// RetractionAngle computes the post-explosion heading for a particle
// at abscissa x with direction dir, in side s's gate.
//
// Random mode samples uniformly on the half of the circle that points
// back into the correct reservoir. Deterministic mode flips the
// direction only when the particle is currently heading toward the
// opposite side.
func RetractionAngle(rng *rand.Rand, random bool, x, dir float64, s geom.Side) float64 {
	if random {
		if s == geom.Right {
			return -math.Pi/2 + rng.Float64()*math.Pi
		}
		return math.Pi/2 + rng.Float64()*math.Pi
	}
	if math.Cos(dir)*x < 0 {
		return dir + math.Pi
	}
	return dir
}
