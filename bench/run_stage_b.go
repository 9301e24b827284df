package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/ic-timon/ballindex/bench/gen"
	"github.com/ic-timon/ballindex/bench/metrics"
	"github.com/ic-timon/ballindex/indexer"
)

// bruteForce 线性扫描得到 k 近邻 id，作为召回率基准
func bruteForce(items []*indexer.Leaf, q indexer.Point, k int) []string {
	type hit struct {
		id string
		d  float64
	}
	hits := make([]hit, len(items))
	for i, it := range items {
		hits[i] = hit{it.ID, indexer.Distance(it.Point, q)}
	}
	sort.Slice(hits, func(a, b int) bool { return hits[a].d < hits[b].d })
	if k > len(hits) {
		k = len(hits)
	}
	out := make([]string, k)
	for i := range out {
		out[i] = hits[i].id
	}
	return out
}

func recall(got []indexer.Neighbor, want []string) float64 {
	if len(want) == 0 {
		return 1
	}
	set := make(map[string]bool, len(want))
	for _, id := range want {
		set[id] = true
	}
	var hit int
	for _, n := range got {
		if l := n.Leaf(); l != nil && set[l.ID] {
			hit++
		}
	}
	return float64(hit) / float64(len(want))
}

// runStageB 测量 KNN 单查询延迟、与线性扫描的召回对比以及批量 QPS
func runStageB(opts stageOpts) error {
	const queries = 200
	ks := []int{1, 5, 10}

	points := gen.Clustered(opts.n+queries, opts.dim, 32, 0.05, 7)
	items := gen.Items(points[:opts.n])
	qs := points[opts.n:]

	fmt.Printf("阶段 B: 构建 %d 点索引（%d 维，32 簇）...\n", opts.n, opts.dim)
	tree, err := indexer.Build(items, opts.cfg)
	if err != nil {
		return err
	}
	tree.AggregateAll()

	var rows []metrics.StageBRow
	for _, k := range ks {
		durations := make([]time.Duration, len(qs))
		bruteDur := make([]time.Duration, len(qs))
		var rsum float64
		for i, q := range qs {
			t0 := time.Now()
			got := tree.KNN(1, q, k)
			durations[i] = time.Since(t0)

			t1 := time.Now()
			want := bruteForce(items, q, k)
			bruteDur[i] = time.Since(t1)
			rsum += recall(got, want)
		}
		stats := metrics.LatencyStatsFromDurations(durations)
		brute := metrics.LatencyStatsFromDurations(bruteDur)

		t2 := time.Now()
		tree.KNNBatch(qs, k)
		batchQPS := float64(len(qs)) / time.Since(t2).Seconds()

		row := metrics.StageBRow{
			N:        opts.n,
			Dim:      opts.dim,
			K:        k,
			P50Ms:    stats.P50Ms,
			P99Ms:    stats.P99Ms,
			BruteP50: brute.P50Ms,
			Recall:   rsum / float64(len(qs)),
			BatchQPS: batchQPS,
		}
		rows = append(rows, row)
		fmt.Printf("  k=%d P50=%.3fms P99=%.3fms 线性扫描P50=%.3fms 召回=%.3f 批量QPS=%.0f\n",
			k, row.P50Ms, row.P99Ms, row.BruteP50, row.Recall, row.BatchQPS)
	}

	path := metrics.ReportPath("bench_report_stage_b_")
	if err := metrics.WriteCSV(rows, path); err != nil {
		return err
	}
	fmt.Printf("报告已写入 %s\n", path)
	return nil
}
