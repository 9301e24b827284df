package store

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	bolt "go.etcd.io/bbolt"
)

// ErrNotFound reports a missing key.
var ErrNotFound = errors.New("store: item is not found")

var (
	bkMeta         = []byte("META_BUCKET")
	bkBaskets      = []byte("BASKET_BUCKET")
	bkAttributions = []byte("ATTRIBUTION_BUCKET")
	keyCore        = []byte("CORE")
)

// FragmentStore keeps the encoded pieces of a split index in a bbolt file:
// the core, baskets keyed by branch index and leaf attributions keyed by id.
// Values are opaque bytes; encoding is the caller's concern.
type FragmentStore struct {
	DB *bolt.DB
}

// OpenFragmentStore opens or creates the bbolt file at path.
func OpenFragmentStore(path string, opt *bolt.Options) (*FragmentStore, error) {
	db, err := bolt.Open(path, 0644, opt)
	if err != nil {
		return nil, errors.Wrapf(err, "open fragment store %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bkMeta, bkBaskets, bkAttributions} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &FragmentStore{DB: db}, nil
}

func basketKey(id int) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))
	return k
}

// PutCore stores the encoded core.
func (s *FragmentStore) PutCore(v []byte) error {
	return s.DB.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bkMeta).Put(keyCore, v)
	})
}

// Core returns the encoded core.
func (s *FragmentStore) Core() ([]byte, error) {
	return s.get(bkMeta, keyCore)
}

// PutBaskets stores encoded baskets keyed by branch index in one transaction.
func (s *FragmentStore) PutBaskets(baskets map[int][]byte) error {
	return s.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bkBaskets)
		for id, v := range baskets {
			if err := b.Put(basketKey(id), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Basket returns the encoded basket for branch id.
func (s *FragmentStore) Basket(id int) ([]byte, error) {
	return s.get(bkBaskets, basketKey(id))
}

// BasketIDs returns the stored basket keys in ascending order.
func (s *FragmentStore) BasketIDs() ([]int, error) {
	var ids []int
	err := s.DB.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bkBaskets).ForEach(func(k, _ []byte) error {
			ids = append(ids, int(binary.BigEndian.Uint64(k)))
			return nil
		})
	})
	return ids, err
}

// PutAttributions stores encoded attributions keyed by leaf id in one transaction.
func (s *FragmentStore) PutAttributions(attrs map[string][]byte) error {
	return s.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bkAttributions)
		for id, v := range attrs {
			if err := b.Put([]byte(id), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Attribution returns the encoded attribution for a leaf id.
func (s *FragmentStore) Attribution(id string) ([]byte, error) {
	return s.get(bkAttributions, []byte(id))
}

func (s *FragmentStore) get(bucket, key []byte) (out []byte, err error) {
	err = s.DB.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucket).Get(key)
		if v == nil {
			return errors.Wrapf(ErrNotFound, "%s/%x", bucket, key)
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return
}

// Close closes the underlying database.
func (s *FragmentStore) Close() error {
	return s.DB.Close()
}
