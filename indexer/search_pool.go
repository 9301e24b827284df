package indexer

import (
	"sync"
)

// knnJob is one query of a batch.
type knnJob struct {
	slot  int
	query Point
	k     int
	out   [][]Neighbor
	wg    *sync.WaitGroup
}

// searchPool is a fixed set of workers answering KNN queries for one tree.
type searchPool struct {
	tree *Tree
	jobs chan knnJob
	wg   sync.WaitGroup
}

func newSearchPool(tree *Tree, nWorkers, bufSize int) *searchPool {
	if nWorkers <= 0 {
		nWorkers = 1
	}
	p := &searchPool{
		tree: tree,
		jobs: make(chan knnJob, bufSize),
	}
	for i := 0; i < nWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *searchPool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job.out[job.slot] = p.tree.KNN(1, job.query, job.k)
		job.wg.Done()
	}
}

func (p *searchPool) submit(job knnJob) {
	p.jobs <- job
}

// Close stops the workers once queued jobs finish.
func (p *searchPool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

// KNNBatch answers KNN(1, q, k) for every query using Config.SearchWorkers
// workers. Results are in query order.
func (t *Tree) KNNBatch(queries []Point, k int) [][]Neighbor {
	if len(queries) == 0 || k <= 0 {
		return nil
	}
	for _, q := range queries {
		t.checkPoint(q)
	}
	// Warm the cache so workers only read it.
	t.AggregateAll()
	workers := t.cfg.SearchWorkers
	if workers > len(queries) {
		workers = len(queries)
	}
	pool := newSearchPool(t, workers, len(queries))
	defer pool.Close()
	out := make([][]Neighbor, len(queries))
	var wg sync.WaitGroup
	wg.Add(len(queries))
	for i, q := range queries {
		pool.submit(knnJob{slot: i, query: q, k: k, out: out, wg: &wg})
	}
	wg.Wait()
	return out
}
