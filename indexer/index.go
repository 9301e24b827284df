package indexer

import "sort"

// Index maps leaf indices to leaf identifiers. It is the transport shape of a
// tree and carries no geometry.
type Index map[int]string

// Has implements Nodes.
func (idx Index) Has(i int) bool {
	_, ok := idx[i]
	return ok
}

// Clone returns a shallow copy of idx.
func (idx Index) Clone() Index {
	out := make(Index, len(idx))
	for k, v := range idx {
		out[k] = v
	}
	return out
}

// Keys returns the present indices in ascending order.
func (idx Index) Keys() []int {
	keys := make([]int, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// MaxKey returns the largest present index, or 0 for an empty index.
func (idx Index) MaxKey() int {
	m := 0
	for k := range idx {
		if k > m {
			m = k
		}
	}
	return m
}

// BranchNodes returns the entries of idx under b (b included).
func (idx Index) BranchNodes(b int) Index {
	out := make(Index)
	for k, v := range idx {
		if under(k, b) {
			out[k] = v
		}
	}
	return out
}

// under reports whether b is i or one of its ancestors.
func under(i, b int) bool {
	for i > b {
		i >>= 1
	}
	return i == b
}
