package indexer

import (
	"math/bits"
	"math/rand"
)

const (
	// MaxDepth is the deepest supported level (root at depth 0).
	MaxDepth = 29
	// MaxIndex is the largest addressable index, 2^30 - 1.
	MaxIndex = 1<<(MaxDepth+1) - 1
	// BisectLeft is the relative index "one, zero, then 29 ones".
	BisectLeft = 1<<30 | (1<<29 - 1)
	// BisectRight is the relative index "two ones then zeroes".
	BisectRight = 3 << (MaxDepth - 1)

	randomOrMask  = 1 << 30
	randomAndMask = 1<<31 - 1
)

// Nodes reports which indices of an implicit tree are present.
type Nodes interface {
	Has(i int) bool
}

// Depth returns floor(log2 i); the root is at depth 0.
func Depth(i int) int {
	if i <= 0 {
		return 0
	}
	return bits.Len(uint(i)) - 1
}

// Ancestor returns the nearest present index on the path from i to the root,
// i itself included.
func Ancestor(t Nodes, i int) (int, bool) {
	for ; i > 0; i >>= 1 {
		if t.Has(i) {
			return i, true
		}
	}
	return 0, false
}

// Validate reports whether every path from the root reaches a present index
// within MaxIndex.
func Validate(t Nodes) bool {
	return validateBranch(t, 1)
}

func validateBranch(t Nodes, b int) bool {
	if t.Has(b) {
		return true
	}
	if b > MaxIndex {
		return false
	}
	return validateBranch(t, 2*b) && validateBranch(t, 2*b+1)
}

// bit extracts bit pos of v.
func bit(v, pos int) int {
	return (v >> uint(pos)) & 1
}

// RelativeAt descends from branch choosing children by the bits of rel and
// returns the first present index. The bit pattern repeats with period
// max(Depth(rel), 1), so short patterns name the same relative position at
// any depth.
func RelativeAt(t Nodes, branch, rel int) (int, bool) {
	d := Depth(rel)
	if d < 1 {
		d = 1
	}
	n := branch
	for step := 1; n <= MaxIndex && step <= MaxDepth+1; step++ {
		if t.Has(n) {
			return n, true
		}
		n = 2*n + bit(rel, (d-step%d)%d)
	}
	return 0, false
}

// BisectLeftOf returns the right-most present index of the left half of b.
func BisectLeftOf(t Nodes, b int) (int, bool) {
	return RelativeAt(t, b, BisectLeft)
}

// BisectRightOf returns the left-most present index of the right half of b.
func BisectRightOf(t Nodes, b int) (int, bool) {
	return RelativeAt(t, b, BisectRight)
}

// SeededRandom returns the present index reached by descending from b along
// the bits of seed. The same seed names the same position under any branch.
func SeededRandom(t Nodes, b, seed int) (int, bool) {
	return RelativeAt(t, b, seed&randomAndMask|randomOrMask)
}

// RandomSeed draws a seed suitable for SeededRandom.
func RandomSeed(rng *rand.Rand) int {
	var v int
	if rng == nil {
		v = rand.Int()
	} else {
		v = rng.Int()
	}
	return v&randomAndMask | randomOrMask
}

// First returns the left-most present index under b.
func First(t Nodes, b int) (int, bool) {
	for ; b > 0 && b <= MaxIndex; b *= 2 {
		if t.Has(b) {
			return b, true
		}
	}
	return 0, false
}

// Bisect returns b when present, otherwise the left-most index of its right child.
func Bisect(t Nodes, b int) (int, bool) {
	if t.Has(b) {
		return b, true
	}
	return First(t, 2*b+1)
}

// Height returns the number of levels between b and its deepest present descendant.
func Height(t Nodes, b int) int {
	if t.Has(b) || b > MaxIndex {
		return 0
	}
	l, r := Height(t, 2*b), Height(t, 2*b+1)
	if l > r {
		return l + 1
	}
	return r + 1
}
