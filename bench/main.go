// 压测入口：-stage a|b|c|d
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ic-timon/ballindex/bench/metrics"
	"github.com/ic-timon/ballindex/indexer"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/inconshreveable/log15.v2"
)

type stageOpts struct {
	cfg *indexer.Config
	reg *prometheus.Registry
	n   int
	dim int
}

func main() {
	stage := flag.String("stage", "", "压测阶段: a(构建与聚合) | b(KNN 延迟与召回) | c(并发偏好收敛) | d(拆分/展开 + 持久化)")
	cfgPath := flag.String("config", "", "YAML 配置文件，为空时使用默认配置")
	n := flag.Int("n", 20_000, "点数")
	dim := flag.Int("dim", 8, "维度")
	verbose := flag.Bool("v", false, "输出 debug 日志")
	flag.Parse()

	cfg := indexer.DefaultConfig()
	if *cfgPath != "" {
		var err error
		if cfg, err = indexer.LoadConfig(*cfgPath); err != nil {
			log.Fatalf("加载配置失败: %v", err)
		}
	}
	lvl := log15.LvlInfo
	if *verbose {
		lvl = log15.LvlDebug
	}
	logger := log15.New("stage", *stage)
	logger.SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(os.Stderr, log15.LogfmtFormat())))
	cfg.Logger = logger
	reg := prometheus.NewRegistry()
	cfg.Metrics = indexer.NewMetrics(reg)

	opts := stageOpts{cfg: cfg, reg: reg, n: *n, dim: *dim}
	var err error
	switch *stage {
	case "a":
		err = runStageA(opts)
	case "b":
		err = runStageB(opts)
	case "c":
		err = runStageC(opts)
	case "d":
		err = runStageD(opts)
	default:
		log.Fatalf("请指定 -stage a|b|c|d")
	}
	if err != nil {
		logger.Crit("压测失败", "err", err)
		os.Exit(1)
	}

	summary, err := metrics.Summarize(reg)
	if err != nil {
		logger.Error("采集指标失败", "err", err)
	} else if err := metrics.WriteJSON(summary, metrics.ReportPathExt("bench_metrics_stage_"+*stage+"_", ".json")); err != nil {
		logger.Error("写入指标失败", "err", err)
	}
	fmt.Println("压测完成")
}
