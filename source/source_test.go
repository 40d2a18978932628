package source_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/plus3/blockfall/shape"
	"github.com/plus3/blockfall/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSource(t *testing.T, seed uint64, depth int) *source.Source {
	t.Helper()
	s, err := source.New(shape.Kinds(), depth, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	require.NoError(t, err)
	return s
}

// assertBagWindow checks the 7-bag guarantees on a sequence of draws: every
// 14 draws aligned to a bag boundary hold each kind exactly twice, any 13
// consecutive draws hold every kind, and no 14 consecutive draws hold a kind
// more than three times.
func assertBagWindow(t *testing.T, spawns []shape.Kind) {
	t.Helper()
	bag := len(shape.Kinds())
	count := func(window []shape.Kind) map[shape.Kind]int {
		counts := map[shape.Kind]int{}
		for _, k := range window {
			counts[k]++
		}
		return counts
	}

	for start := 0; start+2*bag <= len(spawns); start += bag {
		window := spawns[start : start+2*bag]
		counts := count(window)
		for _, k := range shape.Kinds() {
			if counts[k] != 2 {
				t.Fatalf("bag-aligned window at %d: %s appears %d times in %v", start, k, counts[k], window)
			}
		}
	}

	for start := 0; start+2*bag-1 <= len(spawns); start++ {
		window := spawns[start : start+2*bag-1]
		counts := count(window)
		for _, k := range shape.Kinds() {
			if counts[k] == 0 {
				t.Fatalf("window at %d: %s missing from %v", start, k, window)
			}
		}
	}

	for start := 0; start+2*bag <= len(spawns); start++ {
		window := spawns[start : start+2*bag]
		for k, n := range count(window) {
			if n > 3 {
				t.Fatalf("window at %d: %s appears %d times in %v", start, k, n, window)
			}
		}
	}
}

func TestNew(t *testing.T) {
	_, err := source.New(nil, 3, nil)
	assert.ErrorIs(t, err, source.ErrNoShapes)

	_, err = source.New(shape.Kinds(), 0, nil)
	assert.ErrorIs(t, err, source.ErrNoPreview)

	s, err := source.New(shape.Kinds(), 4, nil)
	require.NoError(t, err)
	assert.Len(t, s.Peek(10), 4)
	assert.Equal(t, 4, s.Depth())
}

func TestBagFairness(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			s := newSource(t, seed, 5)
			spawns := make([]shape.Kind, 0, 140)
			for i := 0; i < 140; i++ {
				spawns = append(spawns, s.Next())
			}
			assertBagWindow(t, spawns)
		})
	}

	t.Run("holds do not break the window", func(t *testing.T) {
		s := newSource(t, 42, 3)
		var natural []shape.Kind
		var draws []shape.Kind
		rng := rand.New(rand.NewPCG(7, 7))
		current := s.Next()
		natural = append(natural, current)
		draws = append(draws, current)
		for len(natural) < 200 {
			if rng.IntN(3) == 0 && s.CanHold() {
				wasEmpty := s.Held() == shape.None
				next, ok := s.Hold(current)
				require.True(t, ok)
				if wasEmpty {
					draws = append(draws, next)
				}
				current = next
				continue
			}
			current = s.Next()
			natural = append(natural, current)
			draws = append(draws, current)
		}
		// Every kind leaving the queue comes off the bag in order.
		assertBagWindow(t, draws)
	})
}

func TestPeek(t *testing.T) {
	s := newSource(t, 3, 5)
	preview := s.Peek(5)
	require.Len(t, preview, 5)

	preview[0] = shape.None
	assert.NotEqual(t, shape.None, s.Peek(1)[0], "peek returns a copy")

	head := s.Peek(2)
	assert.Equal(t, head[0], s.Next())
	assert.Equal(t, head[1], s.Peek(1)[0])
	assert.Len(t, s.Peek(5), 5, "queue stays full")
	assert.Empty(t, s.Peek(-1))
}

func TestHold(t *testing.T) {
	t.Run("empty slot takes the queue head", func(t *testing.T) {
		s := newSource(t, 9, 5)
		s.Next()
		head := s.Peek(1)[0]

		play, ok := s.Hold(shape.T)
		require.True(t, ok)
		assert.Equal(t, head, play)
		assert.Equal(t, shape.T, s.Held())
		assert.False(t, s.CanHold())
		assert.Len(t, s.Peek(5), 5)
	})

	t.Run("second hold before a spawn is refused", func(t *testing.T) {
		s := newSource(t, 9, 5)
		s.Next()
		_, ok := s.Hold(shape.T)
		require.True(t, ok)

		play, ok := s.Hold(shape.S)
		assert.False(t, ok)
		assert.Equal(t, shape.None, play)
		assert.Equal(t, shape.T, s.Held())
	})

	t.Run("occupied slot swaps", func(t *testing.T) {
		s := newSource(t, 9, 5)
		s.Next()
		_, ok := s.Hold(shape.T)
		require.True(t, ok)
		s.Next()
		queue := s.Peek(5)

		play, ok := s.Hold(shape.Z)
		require.True(t, ok)
		assert.Equal(t, shape.T, play)
		assert.Equal(t, shape.Z, s.Held())
		assert.Equal(t, queue, s.Peek(5), "swap does not draw")
	})

	t.Run("reset", func(t *testing.T) {
		s := newSource(t, 9, 5)
		s.Next()
		s.Hold(shape.T)
		s.Reset()
		assert.Equal(t, shape.None, s.Held())
		assert.True(t, s.CanHold())
		assert.Len(t, s.Peek(5), 5)
	})
}

func TestDeterministic(t *testing.T) {
	a := newSource(t, 11, 5)
	b := newSource(t, 11, 5)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func ExampleSource_Hold() {
	s, _ := source.New([]shape.Kind{shape.T, shape.T}, 1, rand.New(rand.NewPCG(1, 2)))
	first := s.Next()
	play, ok := s.Hold(first)
	fmt.Println(first, play, ok, s.Held())
	_, ok = s.Hold(play)
	fmt.Println(ok)
	// Output:
	// T T true T
	// false
}
