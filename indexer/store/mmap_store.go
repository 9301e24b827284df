package store

import (
	"os"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// VectorStore provides read-only access to persisted float64 vectors.
type VectorStore interface {
	// VectorView returns a view of dim float64 values at the given file offset.
	// The slice is valid until Close is called. Caller must not modify it.
	VectorView(offset int64, dim int) []float64
	// Bytes returns the full mapped file as []byte, or nil if not available.
	Bytes() []byte
	// Close releases resources (e.g. unmaps the file).
	Close() error
}

// MmapVectorStore is a VectorStore backed by an mmap'd file.
type MmapVectorStore struct {
	f    *os.File
	data mmap.MMap
}

// OpenMmap opens a file and returns a read-only VectorStore.
func OpenMmap(path string) (VectorStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &MmapVectorStore{f: f, data: m}, nil
}

// Bytes returns the full mapped file.
func (s *MmapVectorStore) Bytes() []byte {
	return s.data
}

// VectorView returns a []float64 view of dim values at offset, or nil when
// the range is outside the file or misaligned.
func (s *MmapVectorStore) VectorView(offset int64, dim int) []float64 {
	if s.data == nil || dim < 0 {
		return nil
	}
	if dim == 0 {
		return []float64{}
	}
	if offset < 0 || offset%8 != 0 || offset+int64(dim)*8 > int64(len(s.data)) {
		return nil
	}
	ptr := unsafe.Pointer(&s.data[offset])
	return unsafe.Slice((*float64)(ptr), dim)
}

// Close unmaps the file and closes it.
func (s *MmapVectorStore) Close() error {
	if s.data != nil {
		if err := s.data.Unmap(); err != nil {
			return err
		}
		s.data = nil
	}
	if s.f != nil {
		err := s.f.Close()
		s.f = nil
		return err
	}
	return nil
}
