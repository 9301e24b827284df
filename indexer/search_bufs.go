package indexer

import (
	"sort"
	"sync"
)

const candidatesBufCap = 64

// candidates is a bounded list of neighbors sorted ascending by Distance.
type candidates struct {
	k     int
	items []Neighbor
}

func (c *candidates) full() bool {
	return len(c.items) >= c.k
}

// worst returns the k-th ranking distance; only meaningful when full.
func (c *candidates) worst() float64 {
	return c.items[c.k-1].Distance
}

// push inserts n after any equal distances and truncates to k.
func (c *candidates) push(n Neighbor) {
	if c.full() && n.Distance >= c.worst() {
		return
	}
	pos := sort.Search(len(c.items), func(j int) bool { return c.items[j].Distance > n.Distance })
	c.items = append(c.items, Neighbor{})
	copy(c.items[pos+1:], c.items[pos:])
	c.items[pos] = n
	if len(c.items) > c.k {
		c.items = c.items[:c.k]
	}
}

func (c *candidates) result() []Neighbor {
	if len(c.items) == 0 {
		return nil
	}
	out := make([]Neighbor, len(c.items))
	copy(out, c.items)
	return out
}

func (c *candidates) reset(k int) {
	c.k = k
	for i := range c.items {
		c.items[i] = Neighbor{}
	}
	c.items = c.items[:0]
}

// candidatesPool reuses candidate buffers across queries.
var candidatesPool = sync.Pool{
	New: func() any {
		return &candidates{items: make([]Neighbor, 0, candidatesBufCap)}
	},
}

func getCandidates(k int) *candidates {
	c := candidatesPool.Get().(*candidates)
	c.reset(k)
	return c
}

func putCandidates(c *candidates) {
	c.reset(0)
	candidatesPool.Put(c)
}
