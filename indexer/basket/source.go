package basket

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/ic-timon/ballindex/indexer/codec"
	"github.com/ic-timon/ballindex/indexer/store"
)

// Source fetches expansions by basket id.
type Source interface {
	Expansion(ctx context.Context, id string) (*Expansion, error)
}

// ID names the basket keyed by branch b.
func ID(b int) string {
	return strconv.Itoa(b)
}

// BoltSource serves fragments written by Publish.
type BoltSource struct {
	Store *store.FragmentStore
	Codec codec.Codec
}

// Core returns the published core basket.
func (s *BoltSource) Core(ctx context.Context) (*Basket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.Store.Core()
	if err != nil {
		return nil, err
	}
	return Deserialize(data, s.Codec)
}

// Expansion implements Source.
func (s *BoltSource) Expansion(ctx context.Context, id string) (*Expansion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := strconv.Atoi(id)
	if err != nil {
		return nil, errors.Wrapf(store.ErrNotFound, "basket id %q", id)
	}
	data, err := s.Store.Basket(b)
	if err != nil {
		return nil, err
	}
	x := new(Expansion)
	if err := s.Codec.Unmarshal(data, x); err != nil {
		return nil, errors.Wrapf(err, "basket %s", id)
	}
	return x, nil
}
