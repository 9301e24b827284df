package indexer

import (
	"encoding/binary"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/ic-timon/ballindex/indexer/store"
)

// NewTreeFromFile loads a tree from file (mmap). cfg may be nil to use DefaultConfig().
// Leaf points are views into the mapping; call ClosePersisted when done.
func NewTreeFromFile(path string, cfg *Config) (*Tree, error) {
	t := &Tree{cfg: cfg.OrDefault()}
	if err := t.LoadFrom(path); err != nil {
		return nil, err
	}
	return t, nil
}

// createFile opens the destination of SaveTo.
var createFile = os.Create

// SaveToAtomic writes the tree to a file atomically (write to path+".tmp", then rename).
// On Windows, the target must not exist for Rename to succeed; remove it first.
// A failed write leaves neither the temp file nor a changed target behind.
func (t *Tree) SaveToAtomic(path string) error {
	tmp := path + ".tmp"
	if err := t.SaveTo(tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	_ = os.Remove(path) // ignore error if not exists
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// SaveTo writes the tree to a file, resolving every branch first.
func (t *Tree) SaveTo(path string) error {
	enc, err := encodeTree(t)
	if err != nil {
		return err
	}
	nodesStart := int64(store.HeaderSize)
	stringsStart := nodesStart + int64(len(enc.records))*store.NodeRecordSize
	dataStart := store.AlignUp(stringsStart+int64(enc.strings.Len()), store.PageAlign)
	enc.rebase(dataStart)

	h := &store.Header{
		Dim:           uint32(t.dim),
		NumNodes:      uint32(len(enc.records)),
		NumLeaves:     uint32(enc.leaves),
		StringsLen:    uint32(enc.strings.Len()),
		NodesOffset:   uint64(nodesStart),
		StringsOffset: uint64(stringsStart),
		DataOffset:    uint64(dataStart),
	}
	headerBytes, err := store.EncodeHeader(h)
	if err != nil {
		return err
	}

	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(headerBytes); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, enc.records); err != nil {
		return err
	}
	if _, err := f.Write(enc.strings.Bytes()); err != nil {
		return err
	}
	// Pad to dataStart (4KB aligned)
	written := stringsStart + int64(enc.strings.Len())
	if padLen := dataStart - written; padLen > 0 {
		if _, err := f.Write(make([]byte, padLen)); err != nil {
			return err
		}
	}
	n, err := f.Write(enc.vectors.Bytes())
	if err != nil {
		return err
	}
	if n != enc.vectors.Len() {
		return errors.New("failed to write full vector data")
	}
	t.cfg.Logger.Debug("tree saved", "path", path, "nodes", len(enc.records), "leaves", enc.leaves, "bytes", dataStart+int64(n))
	return f.Sync()
}

// LoadFrom replaces the receiver's contents with the tree stored at path.
// Points are read-only views of the mapping; release it with ClosePersisted.
func (t *Tree) LoadFrom(path string) error {
	vs, err := store.OpenMmap(path)
	if err != nil {
		return err
	}

	data := vs.Bytes()
	if len(data) < store.HeaderSize {
		vs.Close()
		return errors.Wrap(store.ErrFormat, "index file too small")
	}

	h, err := store.DecodeHeader(data[:store.HeaderSize])
	if err != nil {
		vs.Close()
		return err
	}

	nodesEnd := int64(h.NodesOffset) + int64(h.NumNodes)*store.NodeRecordSize
	stringsEnd := int64(h.StringsOffset) + int64(h.StringsLen)
	if int64(len(data)) < nodesEnd || int64(len(data)) < stringsEnd {
		vs.Close()
		return errors.Wrap(store.ErrFormat, "index file truncated")
	}
	records, err := store.DecodeNodes(data[h.NodesOffset:nodesEnd], int(h.NumNodes))
	if err != nil {
		vs.Close()
		return err
	}

	loaded, err := decodeTree(h, records, data[h.StringsOffset:stringsEnd], vs, t.cfg.OrDefault())
	if err != nil {
		vs.Close()
		return err
	}

	if t.persistedStore != nil {
		t.persistedStore.Close()
	}
	t.cfg, t.dim, t.leaves, t.slots = loaded.cfg, loaded.dim, loaded.leaves, loaded.slots
	t.persistedStore = vs
	t.cfg.Logger.Debug("tree loaded", "path", path, "nodes", h.NumNodes, "leaves", h.NumLeaves)
	return nil
}
