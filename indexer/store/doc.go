// Package store provides the persist file format, the mmap-backed vector
// store and the bbolt-backed fragment store for the indexer. The file store
// is used internally by indexer.SaveTo, indexer.LoadFrom and
// indexer.NewTreeFromFile.
//
// The file format consists of:
//   - Header (64 bytes): magic, version, dimension, counts and offsets
//   - Node records (40 bytes each): index, tag, weight, id and vector offsets, radius
//   - String table: leaf identifiers
//   - Vector data (page aligned): float64 points, centers and centroids
package store
