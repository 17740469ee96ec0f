// Package metrics 提供运行时指标采集
package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// LatencyStats 延迟统计
type LatencyStats struct {
	P50Ms float64
	P95Ms float64
	P99Ms float64
	AvgMs float64
	N     int
}

// StageARow 阶段 A 单行数据：点集规模 vs 区域查询延迟
type StageARow struct {
	Points        int
	Simplices     int
	BuildDurMs    float64
	BuildAllocMB  float64
	RegionP50Ms   float64
	RegionP99Ms   float64
	ScanP50Ms     float64
	AvgRegionSize float64
	HeapAllocMB   float64
}

// StageBRow 阶段 B 单行数据：批量外心与胞体积 vs worker 数
type StageBRow struct {
	Workers      int
	Simplices    int
	CentersDurMs float64
	VolumesDurMs float64
	BoundedCells int
	AllocMBps    float64
	NumGC        uint32
}

// StageDReport 阶段 D 汇总：纯内存 vs mmap 快照
type StageDReport struct {
	Points       int     `json:"points"`
	Simplices    int     `json:"simplices"`
	SnapshotMB   float64 `json:"snapshot_mb"`
	LoadDurMs    float64 `json:"load_dur_ms"`
	HeapQPS      float64 `json:"heap_qps"`
	HeapP50Ms    float64 `json:"heap_p50_ms"`
	HeapP99Ms    float64 `json:"heap_p99_ms"`
	MmapQPS      float64 `json:"mmap_qps"`
	MmapP50Ms    float64 `json:"mmap_p50_ms"`
	MmapP99Ms    float64 `json:"mmap_p99_ms"`
	MmapHeapRate float64 `json:"mmap_heap_qps_ratio"`
}

// StageCRow 阶段 C 单行数据
type StageCRow struct {
	Concurrency  int
	Points       int
	QPS          float64
	RegionP50Ms  float64
	RegionP99Ms  float64
	Swaps        int
	NumGoroutine int
	P99P50Ratio  float64
}

// Percentile 计算切片中第 p 百分位（0-100），输入需已排序
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := int(float64(len(sorted)-1) * p / 100)
	return sorted[idx]
}

// LatencyStatsFromDurations 从耗时列表计算 P50/P95/P99
func LatencyStatsFromDurations(durations []time.Duration) LatencyStats {
	if len(durations) == 0 {
		return LatencyStats{}
	}
	ms := make([]float64, len(durations))
	var sum float64
	for i, d := range durations {
		ms[i] = float64(d.Nanoseconds()) / 1e6
		sum += ms[i]
	}
	slices.Sort(ms)
	return LatencyStats{
		P50Ms: Percentile(ms, 50),
		P95Ms: Percentile(ms, 95),
		P99Ms: Percentile(ms, 99),
		AvgMs: sum / float64(len(ms)),
		N:     len(ms),
	}
}

// writeCSV 创建 path 并写入表头与数据行
func writeCSV(path string, header []string, rows [][]string) error {
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

// WriteStageACSV 写入阶段 A 报告
func WriteStageACSV(rows []StageARow, path string) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			fmt.Sprintf("%d", r.Points),
			fmt.Sprintf("%d", r.Simplices),
			fmt.Sprintf("%.2f", r.BuildDurMs),
			fmt.Sprintf("%.2f", r.BuildAllocMB),
			fmt.Sprintf("%.4f", r.RegionP50Ms),
			fmt.Sprintf("%.4f", r.RegionP99Ms),
			fmt.Sprintf("%.4f", r.ScanP50Ms),
			fmt.Sprintf("%.2f", r.AvgRegionSize),
			fmt.Sprintf("%.2f", r.HeapAllocMB),
		})
	}
	return writeCSV(path, []string{"Points", "Simplices", "BuildDurMs", "BuildAllocMB", "RegionP50Ms", "RegionP99Ms", "ScanP50Ms", "AvgRegionSize", "HeapAllocMB"}, records)
}

// WriteStageBCSV 写入阶段 B 报告
func WriteStageBCSV(rows []StageBRow, path string) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			fmt.Sprintf("%d", r.Workers),
			fmt.Sprintf("%d", r.Simplices),
			fmt.Sprintf("%.2f", r.CentersDurMs),
			fmt.Sprintf("%.2f", r.VolumesDurMs),
			fmt.Sprintf("%d", r.BoundedCells),
			fmt.Sprintf("%.2f", r.AllocMBps),
			fmt.Sprintf("%d", r.NumGC),
		})
	}
	return writeCSV(path, []string{"Workers", "Simplices", "CentersDurMs", "VolumesDurMs", "BoundedCells", "AllocMBps", "NumGC"}, records)
}

// WriteStageCCSV 写入阶段 C 报告
func WriteStageCCSV(rows []StageCRow, path string) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			fmt.Sprintf("%d", r.Concurrency),
			fmt.Sprintf("%d", r.Points),
			fmt.Sprintf("%.2f", r.QPS),
			fmt.Sprintf("%.4f", r.RegionP50Ms),
			fmt.Sprintf("%.4f", r.RegionP99Ms),
			fmt.Sprintf("%d", r.Swaps),
			fmt.Sprintf("%d", r.NumGoroutine),
			fmt.Sprintf("%.2f", r.P99P50Ratio),
		})
	}
	return writeCSV(path, []string{"Concurrency", "Points", "QPS", "RegionP50Ms", "RegionP99Ms", "Swaps", "NumGoroutine", "P99P50Ratio"}, records)
}

// ReportDir 报告输出目录
const ReportDir = "report"

// ReportPath 生成 report/ 目录下带日期的 CSV 报告路径
func ReportPath(prefix string) string {
	return filepath.Join(ReportDir, prefix+time.Now().Format("20060102")+".csv")
}

// JSONReportPath 同 ReportPath，扩展名为 .json
func JSONReportPath(prefix string) string {
	return filepath.Join(ReportDir, prefix+time.Now().Format("20060102")+".json")
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
