// 阶段 D: 拆分/展开协议经 bbolt 分发的开销，以及 mmap 持久化往返
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ic-timon/ballindex/bench/gen"
	"github.com/ic-timon/ballindex/bench/metrics"
	"github.com/ic-timon/ballindex/indexer"
	"github.com/ic-timon/ballindex/indexer/basket"
	"github.com/ic-timon/ballindex/indexer/codec"
	"github.com/ic-timon/ballindex/indexer/store"
)

func runStageD(opts stageOpts) error {
	ctx := context.Background()
	items := gen.Items(gen.RandomPoints(opts.n, opts.dim, 2024))
	fmt.Printf("阶段 D: 构建 %d 点索引...\n", opts.n)
	tree, err := indexer.Build(items, opts.cfg)
	if err != nil {
		return err
	}
	md := basket.NewMemoryMetadata()
	for _, it := range items {
		md.Put(basket.Attribution{ID: it.ID, Title: it.ID, License: "CC0"})
	}

	dir, err := os.MkdirTemp("", "ballindex-stage-d-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	e, f := opts.cfg.Eagerness, opts.cfg.Frequency
	split, err := tree.Split(e, f)
	if err != nil {
		return err
	}
	want := tree.Index()

	var rows []metrics.StageDRow
	for _, c := range []codec.Codec{codec.JSON, codec.Msgpack} {
		fmt.Printf("阶段 D: 编码 %s eagerness=%d frequency=%d\n", c.Name(), e, f)
		dbPath := filepath.Join(dir, "fragments-"+c.Name()+".db")
		fs, err := store.OpenFragmentStore(dbPath, nil)
		if err != nil {
			return err
		}

		t0 := time.Now()
		if _, err := basket.Publish(ctx, fs, split, md, c); err != nil {
			fs.Close()
			return err
		}
		publishDur := time.Since(t0)

		src := &basket.BoltSource{Store: fs, Codec: c}
		t1 := time.Now()
		core, err := src.Core(ctx)
		if err != nil {
			fs.Close()
			return err
		}
		full, err := basket.NewLoader(src, 0, 0, opts.cfg.Logger).ExpandAll(ctx, core)
		if err != nil {
			fs.Close()
			return err
		}
		expandDur := time.Since(t1)
		if err := fs.Close(); err != nil {
			return err
		}
		if len(full.Index()) != len(want) {
			return errors.Newf("展开后叶子数 %d，期望 %d", len(full.Index()), len(want))
		}
		for k, id := range want {
			if full.Index()[k] != id {
				return errors.Newf("展开后索引 %d 为 %q，期望 %q", k, full.Index()[k], id)
			}
		}

		st, err := os.Stat(dbPath)
		if err != nil {
			return err
		}

		saveMs, loadMs, ok, err := persistRoundTrip(tree, filepath.Join(dir, "index-"+c.Name()+".ball"), opts)
		if err != nil {
			return err
		}
		row := metrics.StageDRow{
			N:           opts.n,
			Codec:       c.Name(),
			Eagerness:   e,
			Frequency:   f,
			CoreEntries: len(split.Core),
			Baskets:     len(split.Baskets),
			StoreBytes:  st.Size(),
			PublishMs:   metrics.Ms(publishDur),
			ExpandMs:    metrics.Ms(expandDur),
			SaveMs:      saveMs,
			LoadMs:      loadMs,
			RoundTrip:   ok,
		}
		rows = append(rows, row)
		fmt.Printf("  Core=%d Baskets=%d Store=%.1fKB Publish=%.0fms Expand=%.0fms Save=%.0fms Load=%.1fms 往返一致=%v\n",
			row.CoreEntries, row.Baskets, float64(row.StoreBytes)/1024, row.PublishMs, row.ExpandMs, row.SaveMs, row.LoadMs, row.RoundTrip)
	}

	path := metrics.ReportPath("bench_report_stage_d_")
	if err := metrics.WriteCSV(rows, path); err != nil {
		return err
	}
	fmt.Printf("报告已写入 %s\n", path)
	return nil
}

// persistRoundTrip 保存 -> mmap 加载 -> 比较一批查询的 KNN 结果
func persistRoundTrip(tree *indexer.Tree, path string, opts stageOpts) (saveMs, loadMs float64, ok bool, err error) {
	t0 := time.Now()
	if err := tree.SaveToAtomic(path); err != nil {
		return 0, 0, false, err
	}
	saveMs = metrics.Ms(time.Since(t0))

	t1 := time.Now()
	loaded, err := indexer.NewTreeFromFile(path, opts.cfg)
	if err != nil {
		return 0, 0, false, err
	}
	defer loaded.ClosePersisted()
	loadMs = metrics.Ms(time.Since(t1))

	ok = loaded.Len() == tree.Len()
	for _, q := range gen.RandomPoints(50, opts.dim, 99) {
		a, b := tree.KNN(1, q, 5), loaded.KNN(1, q, 5)
		if len(a) != len(b) {
			ok = false
			break
		}
		for i := range a {
			if a[i].Leaf().ID != b[i].Leaf().ID {
				ok = false
			}
		}
	}
	return saveMs, loadMs, ok, nil
}
