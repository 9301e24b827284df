package store

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

const (
	// HeaderSize is the fixed header size.
	HeaderSize = 64

	// NodeRecordSize is the fixed size of one encoded NodeRecord.
	NodeRecordSize = 40

	// Magic identifies a valid ball index file.
	Magic = "BALL"

	// FormatVersion is the current file format version.
	FormatVersion uint16 = 1

	// PageAlign is the alignment of the vector data region.
	PageAlign = 4096
)

// ErrFormat reports a malformed or unsupported file.
var ErrFormat = errors.New("store: invalid index file")

// Header holds the persisted index metadata.
type Header struct {
	Magic         [4]byte
	Version       uint16
	_             uint16
	Dim           uint32
	NumNodes      uint32
	NumLeaves     uint32
	StringsLen    uint32
	NodesOffset   uint64
	StringsOffset uint64
	DataOffset    uint64
	Reserved      [16]byte // pad to 64 bytes
}

// Node tags.
const (
	TagBranch uint8 = 0
	TagLeaf   uint8 = 1
)

// NodeRecord is the fixed-size description of one tree slot. Leaves store
// their point at VecOffset; branches store center then centroid.
type NodeRecord struct {
	Index     uint32
	Tag       uint8
	_         [3]byte
	Weight    uint32
	IDLen     uint32
	IDOffset  uint64 // relative to the string table
	VecOffset uint64 // absolute file offset
	Radius    float64
}

// EncodeHeader writes the header to a byte slice, padded to HeaderSize.
func EncodeHeader(h *Header) ([]byte, error) {
	if h == nil {
		return nil, errors.New("header is nil")
	}
	copy(h.Magic[:], Magic)
	h.Version = FormatVersion
	var w bytes.Buffer
	if err := binary.Write(&w, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	b := w.Bytes()
	if len(b) < HeaderSize {
		padded := make([]byte, HeaderSize)
		copy(padded, b)
		return padded, nil
	}
	return b, nil
}

// DecodeHeader reads the header from src. Returns ErrFormat if magic/version invalid.
func DecodeHeader(src []byte) (*Header, error) {
	if len(src) < HeaderSize {
		return nil, errors.Wrap(ErrFormat, "header too short")
	}
	var h Header
	if err := binary.Read(bytes.NewReader(src[:HeaderSize]), binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if string(h.Magic[:]) != Magic {
		return nil, errors.Wrap(ErrFormat, "invalid magic")
	}
	if h.Version != FormatVersion {
		return nil, errors.Wrapf(ErrFormat, "unsupported format version %d", h.Version)
	}
	return &h, nil
}

// DecodeNodes reads n consecutive records from src.
func DecodeNodes(src []byte, n int) ([]NodeRecord, error) {
	if len(src) < n*NodeRecordSize {
		return nil, errors.Wrapf(ErrFormat, "node table truncated: %d bytes for %d records", len(src), n)
	}
	out := make([]NodeRecord, n)
	if err := binary.Read(bytes.NewReader(src[:n*NodeRecordSize]), binary.LittleEndian, out); err != nil {
		return nil, err
	}
	return out, nil
}

// AlignUp rounds x up to a multiple of align.
func AlignUp(x, align int64) int64 {
	if x%align == 0 {
		return x
	}
	return (x/align + 1) * align
}
