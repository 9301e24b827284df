package indexer

// Neighbor is a search hit: the node index, its ball and its ranking distance.
type Neighbor struct {
	Index    int
	Ball     Ball
	Distance float64
}

// Leaf returns the hit as a leaf, or nil for a cluster hit.
func (n Neighbor) Leaf() *Leaf {
	l, _ := n.Ball.(*Leaf)
	return l
}

// KNN returns up to k leaves under start nearest to p, closest first.
// A shorter result means the branch holds fewer than k leaves.
func (t *Tree) KNN(start int, p Point, k int) []Neighbor {
	if k <= 0 {
		return nil
	}
	t.checkPoint(p)
	c := getCandidates(k)
	defer putCandidates(c)
	visited := t.knn(start, p, c)
	t.cfg.Metrics.query("knn", visited)
	return c.result()
}

func (t *Tree) knn(i int, p Point, c *candidates) int {
	b := t.Aggregate(i)
	if b.Weight() == 0 {
		return 0
	}
	edge := Edge(p, b)
	if b.IsLeaf() {
		c.push(Neighbor{Index: i, Ball: b, Distance: edge})
		return 1
	}
	if c.full() && c.worst() < edge {
		return 1
	}
	near, far := t.order(i, p)
	return 1 + t.knn(near, p, c) + t.knn(far, p, c)
}

// KNC returns up to k branches under start whose weight lies in
// [ClusterFloor*m, m], ranked by the distance from p to their centroids.
func (t *Tree) KNC(start int, p Point, k, m int) []Neighbor {
	if k <= 0 || m <= 0 {
		return nil
	}
	t.checkPoint(p)
	c := getCandidates(k)
	defer putCandidates(c)
	visited := t.knc(start, p, m, t.cfg.ClusterFloor*float64(m), c)
	t.cfg.Metrics.query("knc", visited)
	return c.result()
}

func (t *Tree) knc(i int, p Point, m int, floor float64, c *candidates) int {
	b := t.Aggregate(i)
	w := b.Weight()
	if w == 0 || float64(w) < floor {
		return 0
	}
	if c.full() && c.worst() < Edge(p, b) {
		return 1
	}
	if w <= m {
		c.push(Neighbor{Index: i, Ball: b, Distance: Distance(p, b.Centroid())})
		return 1
	}
	near, far := t.order(i, p)
	return 1 + t.knc(near, p, m, floor, c) + t.knc(far, p, m, floor, c)
}

// order returns the children of i, nearer center first. Ties go left.
func (t *Tree) order(i int, p Point) (near, far int) {
	l, r := 2*i, 2*i+1
	lb, rb := t.Aggregate(l), t.Aggregate(r)
	if lb.Weight() == 0 || rb.Weight() == 0 {
		return l, r
	}
	if Distance(p, rb.Center()) < Distance(p, lb.Center()) {
		return r, l
	}
	return l, r
}

// Nearest descends greedily from the root toward the nearer child center.
// It is cheaper than KNN but not exact.
func (t *Tree) Nearest(p Point) (Neighbor, bool) {
	t.checkPoint(p)
	i := 1
	b := t.Aggregate(i)
	if b.Weight() == 0 {
		return Neighbor{}, false
	}
	steps := 1
	for !b.IsLeaf() {
		i, _ = t.order(i, p)
		b = t.Aggregate(i)
		steps++
	}
	t.cfg.Metrics.query("nearest", steps)
	return Neighbor{Index: i, Ball: b, Distance: Distance(p, b.Center())}, true
}

// IntersectingBranches returns the deepest nodes under b whose balls
// intersect ball. A node is reported only when none of its children intersect.
func (t *Tree) IntersectingBranches(b int, ball Ball) []int {
	n := t.Aggregate(b)
	if n.Weight() == 0 || !BallsIntersect(n, ball) {
		return nil
	}
	if n.IsLeaf() {
		return []int{b}
	}
	out := append(t.IntersectingBranches(2*b, ball), t.IntersectingBranches(2*b+1, ball)...)
	if len(out) == 0 {
		return []int{b}
	}
	return out
}

func (t *Tree) checkPoint(p Point) {
	if t.leaves > 0 && len(p) != t.dim {
		dimensionPanic(len(p), t.dim)
	}
}
