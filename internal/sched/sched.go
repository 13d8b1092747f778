// Package sched implements the event scheduler: a total order over all
// particles keyed by next-impact time, supporting pop-min, single
// insert/reinsert, and bulk reinsert after a gate explosion.
//
// container/heap's binary heap gives the pop-min/insert contract in
// O(log N); ties break on particle index so a fixed seed replays the
// same event order.
package sched

import "container/heap"

// TimeFunc resolves a particle index to its current next-impact time.
// The scheduler never stores times itself; it always asks the owner,
// so a caller that mutates a particle's NextImpact and calls Reinsert
// is always consulting live state.
type TimeFunc func(idx int) float64

// Scheduler is an indexed priority queue over particle indices.
type Scheduler struct {
	items    []int // heap array of particle indices
	position []int // particle index -> position in items, or -1
	timeOf   TimeFunc
}

// New builds a scheduler over numParticles indices [0, numParticles),
// all initially absent; call Insert for each after the caller computes
// its first event.
func New(numParticles int, timeOf TimeFunc) *Scheduler {
	pos := make([]int, numParticles)
	for i := range pos {
		pos[i] = -1
	}
	return &Scheduler{
		items:    make([]int, 0, numParticles),
		position: pos,
		timeOf:   timeOf,
	}
}

func (s *Scheduler) Len() int { return len(s.items) }

func (s *Scheduler) heapLess(i, j int) bool {
	ti, tj := s.timeOf(s.items[i]), s.timeOf(s.items[j])
	if ti != tj {
		return ti < tj
	}
	// Deterministic tie-break on particle index.
	return s.items[i] < s.items[j]
}

func (s *Scheduler) heapSwap(i, j int) {
	s.items[i], s.items[j] = s.items[j], s.items[i]
	s.position[s.items[i]] = i
	s.position[s.items[j]] = j
}

// the container/heap.Interface adapter; Scheduler itself is not passed
// to heap.* directly because Push/Pop there operate on interface{} and
// we want a typed API (Insert/PopMin) for callers.
type heapAdapter struct{ *Scheduler }

func (h heapAdapter) Less(i, j int) bool { return h.heapLess(i, j) }
func (h heapAdapter) Swap(i, j int)      { h.heapSwap(i, j) }
func (h heapAdapter) Push(x any)         { h.items = append(h.items, x.(int)) }
func (h heapAdapter) Pop() any {
	old := h.items
	n := len(old)
	v := old[n-1]
	h.items = old[:n-1]
	return v
}

func (s *Scheduler) adapter() heapAdapter { return heapAdapter{s} }

// Insert places idx into the order using its current next-impact time
// (as reported by TimeFunc). idx must not already be present.
func (s *Scheduler) Insert(idx int) {
	s.items = append(s.items, idx)
	s.position[idx] = len(s.items) - 1
	heap.Fix(s.adapter(), s.position[idx])
}

// PopMin removes and returns the particle index with the globally
// minimum next-impact time.
func (s *Scheduler) PopMin() (int, bool) {
	if len(s.items) == 0 {
		return 0, false
	}
	h := s.adapter()
	idx := s.items[0]
	heap.Remove(h, 0)
	s.position[idx] = -1
	return idx, true
}

// Peek reports the current minimum without removing it.
func (s *Scheduler) Peek() (int, bool) {
	if len(s.items) == 0 {
		return 0, false
	}
	return s.items[0], true
}

// Remove takes idx out of the order, wherever it currently sits. It is
// a no-op if idx is not present.
func (s *Scheduler) Remove(idx int) {
	pos := s.position[idx]
	if pos < 0 {
		return
	}
	heap.Remove(s.adapter(), pos)
	s.position[idx] = -1
}

// Reinsert removes idx (a trivial pop if it was the minimum) and
// re-inserts it at its freshly recomputed next-impact time. wasMinimum
// is unused; Remove handles both cases identically via its stored
// position.
func (s *Scheduler) Reinsert(idx int, wasMinimum bool) {
	s.Remove(idx)
	s.Insert(idx)
}

// BulkReinsert re-inserts every index in ids after their next-impact
// times have all been recomputed (the gate-explosion case).
func (s *Scheduler) BulkReinsert(ids []int) {
	for _, idx := range ids {
		s.Remove(idx)
		s.Insert(idx)
	}
}

// Contains reports whether idx currently sits in the order.
func (s *Scheduler) Contains(idx int) bool {
	return s.position[idx] >= 0
}
