package analytics

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/rushteam/eventrec/core"
)

// anomalyThreshold 是判定异常的 z-score 阈值（偏离均值两个标准差）。
const anomalyThreshold = 2.0

// FeatureAnomaly 描述单个异常指标。
type FeatureAnomaly struct {
	Feature   string  `json:"feature"`
	Value     float64 `json:"value"`
	ZScore    float64 `json:"z_score"`
	Direction string  `json:"direction"`
}

// AnomalyReport 是一次异常检测的结果。
type AnomalyReport struct {
	EventID      string           `json:"event_id,omitempty"`
	IsAnomaly    bool             `json:"is_anomaly"`
	Score        float64          `json:"anomaly_score"`
	Features     []FeatureAnomaly `json:"anomalous_features"`
	Explanations []string         `json:"explanation,omitempty"`
}

// AnomalyDetector 基于历史指标分布的 z-score 异常检测器。
//
// 核心思想：对每个指标记录历史均值和标准差，
// 新样本任一指标偏离均值超过 2 个标准差即判为异常。
type AnomalyDetector struct {
	means  map[string]float64
	stddev map[string]float64
}

func NewAnomalyDetector() *AnomalyDetector {
	return &AnomalyDetector{}
}

// Fit 从历史指标样本学习每个指标的均值和标准差。
// 样本不足两条时无法估计离散度。
func (d *AnomalyDetector) Fit(history []map[string]float64) error {
	if len(history) < 2 {
		return core.NewDomainError(core.ModuleAnalytics, core.ErrorCodeInvalidInput, "anomaly detector needs at least 2 history samples")
	}

	cols := make(map[string][]float64)
	for _, sample := range history {
		for k, v := range sample {
			cols[k] = append(cols[k], v)
		}
	}

	d.means = make(map[string]float64, len(cols))
	d.stddev = make(map[string]float64, len(cols))
	for k, vs := range cols {
		d.means[k] = stat.Mean(vs, nil)
		d.stddev[k] = stat.StdDev(vs, nil)
	}
	return nil
}

// Fitted 报告检测器是否已拟合。
func (d *AnomalyDetector) Fitted() bool {
	return d.means != nil
}

// Detect 检测一组指标是否异常，并给出最多 3 条可读解释。
// 没见过的指标直接跳过；标准差为 0 的指标任何偏离都不计分。
func (d *AnomalyDetector) Detect(eventID string, metrics map[string]float64) (*AnomalyReport, error) {
	if !d.Fitted() {
		return nil, core.NewDomainError(core.ModuleAnalytics, core.ErrorCodeNotFitted, "anomaly detector is not fitted")
	}

	report := &AnomalyReport{EventID: eventID, Features: []FeatureAnomaly{}}
	for name, value := range metrics {
		mean, ok := d.means[name]
		if !ok {
			continue
		}
		sd := d.stddev[name]
		if sd == 0 {
			continue
		}
		z := (value - mean) / sd
		abs := z
		if abs < 0 {
			abs = -abs
		}
		if abs > report.Score {
			report.Score = abs
		}
		if abs <= anomalyThreshold {
			continue
		}
		direction := "high"
		if value < mean {
			direction = "low"
		}
		report.Features = append(report.Features, FeatureAnomaly{
			Feature:   name,
			Value:     value,
			ZScore:    abs,
			Direction: direction,
		})
	}

	sort.SliceStable(report.Features, func(i, j int) bool {
		if report.Features[i].ZScore != report.Features[j].ZScore {
			return report.Features[i].ZScore > report.Features[j].ZScore
		}
		return report.Features[i].Feature < report.Features[j].Feature
	})

	if len(report.Features) > 0 {
		report.IsAnomaly = true
		top := report.Features
		if len(top) > 3 {
			top = top[:3]
		}
		for _, f := range top {
			report.Explanations = append(report.Explanations,
				fmt.Sprintf("%s is unusually %s (%.2f, %.2f std. dev.)", f.Feature, f.Direction, f.Value, f.ZScore))
		}
	}
	return report, nil
}

// DetectBatch 逐条检测一批指标样本。
func (d *AnomalyDetector) DetectBatch(samples []map[string]float64) ([]*AnomalyReport, error) {
	out := make([]*AnomalyReport, 0, len(samples))
	for _, m := range samples {
		r, err := d.Detect("", m)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
