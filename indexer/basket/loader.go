package basket

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ic-timon/ballindex/indexer"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
	"gopkg.in/inconshreveable/log15.v2"
)

const (
	defaultCacheTTL        = 10 * time.Minute
	defaultCleanupInterval = 15 * time.Minute
)

// Loader pages expansions in from a Source and keeps them in a TTL cache.
// Concurrent requests for the same id share one fetch. Safe for concurrent use.
type Loader struct {
	src    Source
	cache  *cache.Cache
	group  singleflight.Group
	logger log15.Logger
}

// NewLoader returns a loader over src. Zero durations select the defaults;
// a nil logger discards.
func NewLoader(src Source, ttl, cleanup time.Duration, logger log15.Logger) *Loader {
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	if cleanup == 0 {
		cleanup = defaultCleanupInterval
	}
	if logger == nil {
		logger = log15.New()
		logger.SetHandler(log15.DiscardHandler())
	}
	return &Loader{src: src, cache: cache.New(ttl, cleanup), logger: logger}
}

// Expansion implements Source. Returned expansions are shared and must not
// be modified.
func (l *Loader) Expansion(ctx context.Context, id string) (*Expansion, error) {
	if v, ok := l.cache.Get(id); ok {
		return v.(*Expansion), nil
	}
	v, err, shared := l.group.Do(id, func() (any, error) {
		x, err := l.src.Expansion(ctx, id)
		if err != nil {
			return nil, err
		}
		l.cache.Set(id, x, cache.DefaultExpiration)
		return x, nil
	})
	if err != nil {
		l.logger.Warn("basket fetch failed", "id", id, "err", err)
		return nil, err
	}
	l.logger.Debug("basket fetched", "id", id, "shared", shared)
	return v.(*Expansion), nil
}

// Expand refines b around index i. It returns b unchanged and false when
// nothing there is left to fetch.
func (l *Loader) Expand(ctx context.Context, b *Basket, i int) (*Basket, bool, error) {
	id, ok := b.HasExpansion(i)
	if !ok {
		return b, false, nil
	}
	x, err := l.Expansion(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return b.WithExpansion(x), true, nil
}

// ExpandAll fetches baskets until b holds the whole index.
func (l *Loader) ExpandAll(ctx context.Context, b *Basket) (*Basket, error) {
	for len(b.baskets) > 0 {
		keys := make([]int, 0, len(b.baskets))
		for k := range b.baskets {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		next, ok, err := l.Expand(ctx, b, keys[0])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Wrapf(indexer.ErrStructure, "basket %s refines index %d which is not held", b.baskets[keys[0]], keys[0])
		}
		b = next
	}
	return b, nil
}

// Cached reports how many expansions are held.
func (l *Loader) Cached() int {
	return l.cache.ItemCount()
}

// Flush drops every cached expansion.
func (l *Loader) Flush() {
	l.cache.Flush()
}
