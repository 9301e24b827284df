package main

import (
	"fmt"
	"time"

	"github.com/ic-timon/ballindex/bench/gen"
	"github.com/ic-timon/ballindex/bench/metrics"
	"github.com/ic-timon/ballindex/indexer"
)

// runStageA 测量不同规模下 Build 与首次全量聚合的耗时
func runStageA(opts stageOpts) error {
	scales := []int{opts.n / 10, opts.n / 2, opts.n}

	var rows []metrics.StageARow
	for i, n := range scales {
		if n < 2 {
			continue
		}
		fmt.Printf("阶段 A: 点数 %d 维度 %d\n", n, opts.dim)
		items := gen.Items(gen.RandomPoints(n, opts.dim, int64(42+i)))

		metrics.GC()
		t0 := time.Now()
		tree, err := indexer.Build(items, opts.cfg)
		if err != nil {
			return err
		}
		buildDur := time.Since(t0)

		t1 := time.Now()
		root := tree.AggregateAll()
		aggDur := time.Since(t1)

		metrics.GC()
		after := metrics.Take()
		row := metrics.StageARow{
			N:           n,
			Dim:         opts.dim,
			BuildMs:     metrics.Ms(buildDur),
			AggregateMs: metrics.Ms(aggDur),
			Height:      indexer.Height(tree, 1),
			RootRadius:  root.Radius(),
			HeapAllocMB: after.HeapAllocMB(),
		}
		rows = append(rows, row)
		fmt.Printf("  Build=%.0fms Aggregate=%.1fms Height=%d Heap=%.1fMB\n", row.BuildMs, row.AggregateMs, row.Height, row.HeapAllocMB)
	}

	path := metrics.ReportPath("bench_report_stage_a_")
	if err := metrics.WriteCSV(rows, path); err != nil {
		return err
	}
	fmt.Printf("报告已写入 %s\n", path)
	return nil
}
