// Package source supplies pieces: a shuffled bag refilled with a fresh
// permutation of every kind, a fixed-depth lookahead queue in front of it
// and a single hold slot.
package source

import (
	"errors"
	"math/rand/v2"
	"slices"

	"github.com/plus3/blockfall/shape"
)

var (
	ErrNoShapes  = errors.New("source: shape set is empty")
	ErrNoPreview = errors.New("source: preview depth must be positive")
)

// Source is not safe for concurrent use; it belongs to a single session.
type Source struct {
	kinds   []shape.Kind
	depth   int
	rng     *rand.Rand
	bag     []shape.Kind
	queue   []shape.Kind
	held    shape.Kind
	holdUse bool
}

// New builds a source drawing from kinds with a lookahead of depth pieces.
// The queue is filled immediately. kinds is copied.
func New(kinds []shape.Kind, depth int, rng *rand.Rand) (*Source, error) {
	if len(kinds) == 0 {
		return nil, ErrNoShapes
	}
	if depth <= 0 {
		return nil, ErrNoPreview
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s := &Source{
		kinds: slices.Clone(kinds),
		depth: depth,
		rng:   rng,
		queue: make([]shape.Kind, 0, depth+1),
	}
	s.fill()
	return s, nil
}

func (s *Source) refill() {
	s.bag = append(s.bag[:0], s.kinds...)
	s.rng.Shuffle(len(s.bag), func(i, j int) {
		s.bag[i], s.bag[j] = s.bag[j], s.bag[i]
	})
}

func (s *Source) draw() shape.Kind {
	if len(s.bag) == 0 {
		s.refill()
	}
	k := s.bag[0]
	s.bag = s.bag[1:]
	return k
}

func (s *Source) fill() {
	for len(s.queue) < s.depth {
		s.queue = append(s.queue, s.draw())
	}
}

func (s *Source) dequeue() shape.Kind {
	k := s.queue[0]
	s.queue = append(s.queue[:0], s.queue[1:]...)
	s.fill()
	return k
}

// Next takes the head of the queue for a natural spawn. The queue is topped
// up from the bag and the hold becomes available again.
func (s *Source) Next() shape.Kind {
	s.holdUse = false
	return s.dequeue()
}

// Peek returns a copy of the first n queued kinds, clamped to the depth.
func (s *Source) Peek(n int) []shape.Kind {
	n = min(max(n, 0), len(s.queue))
	return slices.Clone(s.queue[:n])
}

// Depth returns the configured lookahead depth.
func (s *Source) Depth() int {
	return s.depth
}

// Hold parks current in the hold slot and returns the kind to play instead:
// the previously held kind, or the queue head when the slot was empty. It
// returns false and changes nothing if hold was already used since the last
// call to Next. Taking the queue head here does not re-enable hold.
func (s *Source) Hold(current shape.Kind) (shape.Kind, bool) {
	if s.holdUse {
		return shape.None, false
	}
	s.holdUse = true
	prev := s.held
	s.held = current
	if prev == shape.None {
		return s.dequeue(), true
	}
	return prev, true
}

// Held returns the kind in the hold slot, or shape.None.
func (s *Source) Held() shape.Kind {
	return s.held
}

// CanHold reports whether Hold would currently succeed.
func (s *Source) CanHold() bool {
	return !s.holdUse
}

// Reset empties the hold slot, discards the bag and queue and refills them.
// The random stream continues where it was.
func (s *Source) Reset() {
	s.held = shape.None
	s.holdUse = false
	s.bag = s.bag[:0]
	s.queue = s.queue[:0]
	s.fill()
}
