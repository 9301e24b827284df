// Package indexer provides a ball tree index stored as an implicit binary tree:
// index 1 is the root and the children of i are 2i and 2i+1.
//
// Branch balls are aggregated lazily and cached per index. Search, sampling
// and pruning read the tree; pruning always derives a fresh tree, so a source
// tree can back any number of preference sessions at once.
//
// Quick start:
//
//	tree, err := indexer.Build(items, cfg)
//	nearest := tree.KNN(1, query, 5)
//	acc := indexer.NewAccumulator(tree, cfg)
//	err = acc.Accumulate(liked.Point, disliked.Point)
//	region := acc.Convergence()
//
// The split/expand protocol works on the plain Index (leaf index to id):
//
//	split, err := indexer.SplitIndex(tree.Index(), cfg.Eagerness, cfg.Frequency)
//	full := split.Reassemble()
package indexer
