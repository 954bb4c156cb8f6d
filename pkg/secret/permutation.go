package secret

import (
	"fmt"
	"slices"
)

// IndexSpace is the number of positions every permutation covers.
const IndexSpace = 1 << 16

// rankedByte pairs a stream byte with its position in the stream.
type rankedByte struct {
	value uint16
	index uint16
}

// compareRanked orders by value, then by original index, so no two entries compare equal.
func compareRanked(a, b rankedByte) int {
	if a.value != b.value {
		return int(a.value) - int(b.value)
	}

	return int(a.index) - int(b.index)
}

// Permutation ranks the first IndexSpace bytes of stream and returns the original
// indices in ascending (value, index) order. The result is a permutation of
// 0..IndexSpace-1. Streams shorter than IndexSpace yield ErrRange.
func Permutation(stream []byte) ([]uint16, error) {
	if len(stream) < IndexSpace {
		return nil, fmt.Errorf("%w: stream of %d bytes does not cover %d permutation indices",
			ErrRange, len(stream), IndexSpace)
	}

	pairs := make([]rankedByte, IndexSpace)
	for i := range pairs {
		pairs[i] = rankedByte{value: uint16(stream[i]), index: uint16(i)} //nolint:gosec // i < IndexSpace
	}

	slices.SortStableFunc(pairs, compareRanked)

	perm := make([]uint16, IndexSpace)
	for k, p := range pairs {
		perm[k] = p.index
	}

	return perm, nil
}

// Invert returns inv such that inv[perm[i]] == i.
func Invert(perm []uint16) []uint16 {
	inv := make([]uint16, len(perm))
	for i, v := range perm {
		inv[v] = uint16(i) //nolint:gosec // permutations never exceed IndexSpace entries
	}

	return inv
}

// IsPermutation reports whether perm contains every index in 0..IndexSpace-1 exactly once.
func IsPermutation(perm []uint16) bool {
	if len(perm) != IndexSpace {
		return false
	}

	var seen [IndexSpace]bool

	for _, v := range perm {
		if seen[v] {
			return false
		}

		seen[v] = true
	}

	return true
}
