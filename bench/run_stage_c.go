package main

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ic-timon/ballindex/bench/gen"
	"github.com/ic-timon/ballindex/bench/metrics"
	"github.com/ic-timon/ballindex/indexer"
	"golang.org/x/sync/errgroup"
)

// targetChooser 模拟用户：总是选择离心中的目标更近的一方
func targetChooser(target indexer.Point) indexer.Chooser {
	return indexer.ChooserFunc(func(a, b *indexer.Leaf) bool {
		return indexer.Distance(a.Point, target) < indexer.Distance(b.Point, target)
	})
}

// runStageC 在同一棵源树上并发运行多个偏好会话，统计收敛所需比较次数与命中率
func runStageC(opts stageOpts) error {
	concurrencies := []int{1, 4, 16, 64}

	items := gen.Items(gen.RandomPoints(opts.n, opts.dim, 12345))
	fmt.Printf("阶段 C: 构建 %d 点索引...\n", opts.n)
	tree, err := indexer.Build(items, opts.cfg)
	if err != nil {
		return err
	}
	tree.AggregateAll()

	var rows []metrics.StageCRow
	for _, sessions := range concurrencies {
		fmt.Printf("阶段 C: 并发会话 %d\n", sessions)
		iterations := make([]float64, sessions)
		hits := make([]bool, sessions)

		g, ctx := errgroup.WithContext(context.Background())
		var mu sync.Mutex
		snap := metrics.Take()
		start := time.Now()
		for s := 0; s < sessions; s++ {
			s := s
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				rng := rand.New(rand.NewSource(int64(s)))
				target := items[rng.Intn(len(items))]
				acc := indexer.NewAccumulator(tree, nil)
				out, err := indexer.Converge(acc, targetChooser(target.Point), rng)
				if err != nil {
					return err
				}
				mu.Lock()
				iterations[s] = float64(out.Iterations)
				hits[s] = out.Converged() && out.Leaf.ID == target.ID
				if n := metrics.Take().NumGoroutine; n > snap.NumGoroutine {
					snap.NumGoroutine = n
				}
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		elapsed := time.Since(start)

		var hit int
		var sum float64
		for i, ok := range hits {
			if ok {
				hit++
			}
			sum += iterations[i]
		}
		row := metrics.StageCRow{
			Sessions:       sessions,
			N:              opts.n,
			MeanIterations: sum / float64(sessions),
			P95Iterations:  metrics.Quantile(iterations, 0.95),
			HitRate:        float64(hit) / float64(sessions),
			ElapsedMs:      metrics.Ms(elapsed),
			NumGoroutine:   snap.NumGoroutine,
		}
		rows = append(rows, row)
		fmt.Printf("  平均比较=%.1f P95=%.0f 命中率=%.2f 耗时=%.0fms Goroutines=%d\n",
			row.MeanIterations, row.P95Iterations, row.HitRate, row.ElapsedMs, row.NumGoroutine)
	}

	path := metrics.ReportPath("bench_report_stage_c_")
	if err := metrics.WriteCSV(rows, path); err != nil {
		return err
	}
	fmt.Printf("报告已写入 %s\n", path)
	return nil
}
