package prng

import (
	"strconv"

	apperrors "github.com/verte-zerg/mindgym/internal/errors"
)

// Shuffled is the result of an anchor-tracking shuffle.
type Shuffled[T any] struct {
	Items  []T
	Anchor int
}

// ShuffleWithAnchor permutes a copy of items with a Fisher-Yates pass seeded by seed
// and reports where the element originally at anchor ended up.
// Empty input or an out-of-range anchor returns an unshuffled copy with the same anchor.
func ShuffleWithAnchor[T any](items []T, anchor int, seed uint32) Shuffled[T] {
	out := make([]T, len(items))
	copy(out, items)
	if len(items) == 0 || anchor < 0 || anchor >= len(items) {
		return Shuffled[T]{Items: out, Anchor: anchor}
	}
	rng := New(seed)
	pos := anchor
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
		switch pos {
		case i:
			pos = j
		case j:
			pos = i
		}
	}
	return Shuffled[T]{Items: out, Anchor: pos}
}

// Shuffle returns a permuted copy of items.
func Shuffle[T any](items []T, seed uint32) []T {
	out := make([]T, len(items))
	copy(out, items)
	rng := New(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Permutation returns the indices [0, n) in shuffled order.
func Permutation(n int, seed uint32) []int {
	if n <= 0 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return Shuffle(idx, seed)
}

// PickUnique selects count distinct indices from [0, poolSize).
// The result is the first count entries of Permutation(poolSize, seed).
func PickUnique(poolSize, count int, seed uint32) ([]int, error) {
	if count < 0 || count > poolSize {
		return nil, apperrors.WithMetadata(apperrors.CodePoolTooSmall,
			"pool too small for requested count",
			map[string]string{
				"pool":  strconv.Itoa(poolSize),
				"count": strconv.Itoa(count),
			})
	}
	if count == 0 {
		return []int{}, nil
	}
	return Permutation(poolSize, seed)[:count], nil
}
