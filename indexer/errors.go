package indexer

import "github.com/cockroachdb/errors"

var (
	// ErrStructure reports a tree that fails validation or exceeds MaxIndex.
	ErrStructure = errors.New("indexer: invalid tree structure")
	// ErrDimensionMismatch reports points of differing dimensionality.
	ErrDimensionMismatch = errors.New("indexer: dimension mismatch")
	// ErrDegenerateHyperplane reports a preference pair with coincident points.
	ErrDegenerateHyperplane = errors.New("indexer: preferred and declined points coincide")
	// ErrEmptyRegion reports a prune that would leave no leaves.
	ErrEmptyRegion = errors.New("indexer: prune leaves an empty region")
	// ErrNoDistinctPair reports a branch that cannot yield two distinct leaves.
	ErrNoDistinctPair = errors.New("indexer: no distinct pair of leaves")
	// ErrInvalidArgument reports an out of range parameter.
	ErrInvalidArgument = errors.New("indexer: invalid argument")
)

// dimensionPanic aborts a geometric operation on points from different spaces.
func dimensionPanic(a, b int) {
	panic(errors.Mark(errors.AssertionFailedf("point dimensions differ: %d != %d", a, b), ErrDimensionMismatch))
}
