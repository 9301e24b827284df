package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// LatencyStats 延迟统计
type LatencyStats struct {
	P50Ms float64
	P95Ms float64
	P99Ms float64
	AvgMs float64
	N     int
}

// Row 报告中的一行
type Row interface {
	Header() []string
	Record() []string
}

// StageARow 阶段 A：构建与聚合
type StageARow struct {
	N           int
	Dim         int
	BuildMs     float64
	AggregateMs float64
	Height      int
	RootRadius  float64
	HeapAllocMB float64
}

func (StageARow) Header() []string {
	return []string{"N", "Dim", "BuildMs", "AggregateMs", "Height", "RootRadius", "HeapAllocMB"}
}

func (r StageARow) Record() []string {
	return []string{itoa(r.N), itoa(r.Dim), ftoa(r.BuildMs), ftoa(r.AggregateMs), itoa(r.Height), ftoa(r.RootRadius), ftoa(r.HeapAllocMB)}
}

// StageBRow 阶段 B：KNN 延迟与召回
type StageBRow struct {
	N        int
	Dim      int
	K        int
	P50Ms    float64
	P99Ms    float64
	BruteP50 float64
	Recall   float64
	BatchQPS float64
}

func (StageBRow) Header() []string {
	return []string{"N", "Dim", "K", "P50Ms", "P99Ms", "BruteP50Ms", "Recall", "BatchQPS"}
}

func (r StageBRow) Record() []string {
	return []string{itoa(r.N), itoa(r.Dim), itoa(r.K), ftoa(r.P50Ms), ftoa(r.P99Ms), ftoa(r.BruteP50), ftoa(r.Recall), ftoa(r.BatchQPS)}
}

// StageCRow 阶段 C：并发偏好收敛
type StageCRow struct {
	Sessions       int
	N              int
	MeanIterations float64
	P95Iterations  float64
	HitRate        float64
	ElapsedMs      float64
	NumGoroutine   int
}

func (StageCRow) Header() []string {
	return []string{"Sessions", "N", "MeanIterations", "P95Iterations", "HitRate", "ElapsedMs", "NumGoroutine"}
}

func (r StageCRow) Record() []string {
	return []string{itoa(r.Sessions), itoa(r.N), ftoa(r.MeanIterations), ftoa(r.P95Iterations), ftoa(r.HitRate), ftoa(r.ElapsedMs), itoa(r.NumGoroutine)}
}

// StageDRow 阶段 D：拆分/展开与持久化
type StageDRow struct {
	N           int
	Codec       string
	Eagerness   int
	Frequency   int
	CoreEntries int
	Baskets     int
	StoreBytes  int64
	PublishMs   float64
	ExpandMs    float64
	SaveMs      float64
	LoadMs      float64
	RoundTrip   bool
}

func (StageDRow) Header() []string {
	return []string{"N", "Codec", "Eagerness", "Frequency", "CoreEntries", "Baskets", "StoreBytes", "PublishMs", "ExpandMs", "SaveMs", "LoadMs", "RoundTrip"}
}

func (r StageDRow) Record() []string {
	return []string{itoa(r.N), r.Codec, itoa(r.Eagerness), itoa(r.Frequency), itoa(r.CoreEntries), itoa(r.Baskets),
		fmt.Sprintf("%d", r.StoreBytes), ftoa(r.PublishMs), ftoa(r.ExpandMs), ftoa(r.SaveMs), ftoa(r.LoadMs), fmt.Sprintf("%t", r.RoundTrip)}
}

func itoa(v int) string     { return fmt.Sprintf("%d", v) }
func ftoa(v float64) string { return fmt.Sprintf("%.3f", v) }

// Ms 把 time.Duration 转为毫秒
func Ms(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// Quantile 返回 values 的经验分位数（p 取 0-1），不修改输入
func Quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// LatencyStatsFromDurations 从耗时列表计算 P50/P95/P99
func LatencyStatsFromDurations(durations []time.Duration) LatencyStats {
	if len(durations) == 0 {
		return LatencyStats{}
	}
	ms := make([]float64, len(durations))
	for i, d := range durations {
		ms[i] = Ms(d)
	}
	sort.Float64s(ms)
	return LatencyStats{
		P50Ms: stat.Quantile(0.50, stat.Empirical, ms, nil),
		P95Ms: stat.Quantile(0.95, stat.Empirical, ms, nil),
		P99Ms: stat.Quantile(0.99, stat.Empirical, ms, nil),
		AvgMs: stat.Mean(ms, nil),
		N:     len(ms),
	}
}

// WriteCSV 写入一组同类行
func WriteCSV[R Row](rows []R, path string) error {
	if len(rows) == 0 {
		return nil
	}
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(rows[0].Header()); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r.Record()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReportDir 报告输出目录
const ReportDir = "report"

// ReportPath 生成 report/ 目录下带日期的 CSV 报告路径
func ReportPath(prefix string) string {
	return ReportPathExt(prefix, ".csv")
}

// ReportPathExt 同 ReportPath，可指定扩展名
func ReportPathExt(prefix, ext string) string {
	return filepath.Join(ReportDir, prefix+time.Now().Format("20060102")+ext)
}

// WriteJSON 写入 JSON 报告（通用）
func WriteJSON(v interface{}, path string) error {
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
