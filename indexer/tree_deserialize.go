package indexer

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/ic-timon/ballindex/indexer/store"
)

// decodeTree rebuilds a tree from node records. Points, centers and centroids
// are views into vs and stay valid until vs is closed.
func decodeTree(h *store.Header, records []store.NodeRecord, strs []byte, vs store.VectorStore, cfg *Config) (*Tree, error) {
	dim := int(h.Dim)
	t := &Tree{cfg: cfg, dim: dim, slots: make(map[int]*atomic.Pointer[Ball], len(records))}
	view := func(off uint64) (Point, error) {
		v := vs.VectorView(int64(off), dim)
		if v == nil {
			return nil, errors.Wrapf(store.ErrFormat, "vector at offset %d out of range", off)
		}
		return Point(v), nil
	}
	for _, rec := range records {
		i := int(rec.Index)
		if i < 1 || i > MaxIndex {
			return nil, errors.Wrapf(store.ErrFormat, "node index %d out of range", i)
		}
		center, err := view(rec.VecOffset)
		if err != nil {
			return nil, err
		}
		switch rec.Tag {
		case store.TagLeaf:
			end := rec.IDOffset + uint64(rec.IDLen)
			if end > uint64(len(strs)) {
				return nil, errors.Wrapf(store.ErrFormat, "leaf %d id outside string table", i)
			}
			t.fill(i, &Leaf{ID: string(strs[rec.IDOffset:end]), Point: center})
			t.leaves++
		case store.TagBranch:
			centroid, err := view(rec.VecOffset + uint64(dim)*8)
			if err != nil {
				return nil, err
			}
			t.fill(i, NewBranch(center, rec.Radius, centroid, int(rec.Weight)))
		default:
			return nil, errors.Wrapf(store.ErrFormat, "node %d has unknown tag %d", i, rec.Tag)
		}
	}
	if t.leaves != int(h.NumLeaves) {
		return nil, errors.Wrapf(store.ErrFormat, "decoded %d leaves, header says %d", t.leaves, h.NumLeaves)
	}
	if t.leaves > 0 && t.Weight() != t.leaves {
		return nil, errors.Wrapf(ErrStructure, "root weight %d does not match %d leaves", t.Weight(), t.leaves)
	}
	return t, nil
}
