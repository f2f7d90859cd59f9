package model

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// ControlLimits is the mean +/- 2 standard deviation band used for charting.
// The lower limit is floored at zero since the metrics modeled here
// (latency, error counts) cannot be negative.
type ControlLimits struct {
	UpperLimit float64 `json:"upper_limit"`
	CenterLine float64 `json:"center_line"`
	LowerLimit float64 `json:"lower_limit"`
}

// Anomaly is one flagged sample; created only when the z-score exceeds the
// detector threshold and never mutated afterwards.
type Anomaly struct {
	Timestamp float64  `json:"timestamp"`
	Value     float64  `json:"value"`
	Expected  float64  `json:"expected"`
	ZScore    float64  `json:"z_score"`
	Severity  Severity `json:"severity"`
}

// SeriesPoint carries the decomposed sample for charting: trend is a
// centered moving average, residual the distance from it.
type SeriesPoint struct {
	Timestamp float64 `json:"timestamp"`
	Value     float64 `json:"value"`
	Trend     float64 `json:"trend"`
	Residual  float64 `json:"residual"`
}

type AnomalyResult struct {
	Points        []SeriesPoint `json:"points"`
	Anomalies     []Anomaly     `json:"anomalies"`
	ControlLimits ControlLimits `json:"control_limits"`
}
