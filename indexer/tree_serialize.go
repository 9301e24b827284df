package indexer

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/ic-timon/ballindex/indexer/store"
)

// encodedTree is a tree laid out as the sections of the file format.
type encodedTree struct {
	records []store.NodeRecord
	strings bytes.Buffer
	vectors bytes.Buffer
	leaves  int
}

// encodeTree resolves every slot and encodes it in ascending index order.
// VecOffset values are relative to the vector region until rebased.
func encodeTree(t *Tree) (*encodedTree, error) {
	t.AggregateAll()
	enc := &encodedTree{}
	for _, i := range t.Indices() {
		b := t.Aggregate(i)
		if b.Weight() == 0 {
			return nil, errors.Wrapf(ErrStructure, "slot %d is unresolved", i)
		}
		rec := store.NodeRecord{
			Index:     uint32(i),
			Weight:    uint32(b.Weight()),
			VecOffset: uint64(enc.vectors.Len()),
			Radius:    b.Radius(),
		}
		if err := writeVector(&enc.vectors, b.Center()); err != nil {
			return nil, err
		}
		if l, ok := b.(*Leaf); ok {
			rec.Tag = store.TagLeaf
			rec.IDOffset = uint64(enc.strings.Len())
			rec.IDLen = uint32(len(l.ID))
			enc.strings.WriteString(l.ID)
			enc.leaves++
		} else {
			rec.Tag = store.TagBranch
			if err := writeVector(&enc.vectors, b.Centroid()); err != nil {
				return nil, err
			}
		}
		enc.records = append(enc.records, rec)
	}
	return enc, nil
}

func writeVector(w io.Writer, p Point) error {
	if len(p) == 0 {
		return nil
	}
	return binary.Write(w, binary.LittleEndian, []float64(p))
}

// rebase shifts vector offsets to absolute file offsets.
func (e *encodedTree) rebase(dataStart int64) {
	for i := range e.records {
		e.records[i].VecOffset += uint64(dataStart)
	}
}
