package basket

import (
	"context"
	"sync"

	"github.com/ic-timon/ballindex/indexer"
	"github.com/ic-timon/ballindex/indexer/codec"
	"github.com/ic-timon/ballindex/indexer/store"
	"golang.org/x/sync/errgroup"
)

// Prepare turns a split into the core basket and one expansion per basket,
// with attributions resolved from md (nil skips them).
func Prepare(s *indexer.Split, md MetadataStore) (*Basket, map[int]*Expansion, error) {
	owner := make(map[int]string)
	for b, tx := range s.Baskets {
		for k := range tx {
			owner[k] = ID(b)
		}
	}
	refs := func(idx indexer.Index) (map[int]string, []string) {
		bs := make(map[int]string)
		ids := make([]string, 0, len(idx))
		for k, id := range idx {
			if o, ok := owner[k]; ok {
				bs[k] = o
			}
			ids = append(ids, id)
		}
		return bs, ids
	}

	coreBaskets, ids := refs(s.Core)
	attrs, err := collect(md, ids)
	if err != nil {
		return nil, nil, err
	}
	core := New(Core{Tree: s.Core.Clone(), Attributions: attrs, Baskets: coreBaskets})

	xs := make(map[int]*Expansion, len(s.Baskets))
	for b, tx := range s.Baskets {
		x := &Expansion{ID: ID(b), Tree: tx, Baskets: make(map[int]string)}
		var ids []string
		for _, entries := range tx {
			bs, more := refs(entries)
			for k, v := range bs {
				x.Baskets[k] = v
			}
			ids = append(ids, more...)
		}
		if x.Attributions, err = collect(md, ids); err != nil {
			return nil, nil, err
		}
		xs[b] = x
	}
	return core, xs, nil
}

// Publish writes s to fs encoded with c: the core, every basket and the
// attributions they reference. Baskets are encoded concurrently.
func Publish(ctx context.Context, fs *store.FragmentStore, s *indexer.Split, md MetadataStore, c codec.Codec) (*Basket, error) {
	core, xs, err := Prepare(s, md)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	encoded := make(map[int][]byte, len(xs))
	g, ctx := errgroup.WithContext(ctx)
	for b, x := range xs {
		b, x := b, x
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := c.Marshal(x)
			if err != nil {
				return err
			}
			mu.Lock()
			encoded[b] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	attrs := make(map[string][]byte)
	add := func(m map[string]Attribution) error {
		for id, a := range m {
			if _, ok := attrs[id]; ok {
				continue
			}
			data, err := c.Marshal(a)
			if err != nil {
				return err
			}
			attrs[id] = data
		}
		return nil
	}
	if err := add(core.attributions); err != nil {
		return nil, err
	}
	for _, x := range xs {
		if err := add(x.Attributions); err != nil {
			return nil, err
		}
	}

	coreData, err := core.Serialize(c)
	if err != nil {
		return nil, err
	}
	if err := fs.PutCore(coreData); err != nil {
		return nil, err
	}
	if err := fs.PutBaskets(encoded); err != nil {
		return nil, err
	}
	if err := fs.PutAttributions(attrs); err != nil {
		return nil, err
	}
	return core, nil
}
