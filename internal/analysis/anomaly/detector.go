package anomaly

import (
	"math"

	"github.com/tracelens/tracelens/internal/analysis/model"
	"go.uber.org/zap"
)

const (
	// MinimumSamples below which detection yields an empty result.
	MinimumSamples = 3

	anomalyThreshold  = 2.0
	warningThreshold  = 2.5
	criticalThreshold = 3.0
	controlBandSigma  = 2.0
	trendWindow       = 5
)

type Detector struct {
	logger *zap.Logger
}

func NewDetector(logger *zap.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect recomputes control limits and anomalies from scratch for the given
// series; no state survives between calls. Fewer than MinimumSamples yields
// an empty result, not an error. Timestamps and values are aligned by index.
func (d *Detector) Detect(timestamps []float64, values []float64) model.AnomalyResult {
	if len(values) < MinimumSamples || len(timestamps) != len(values) {
		return model.AnomalyResult{
			Points:    []model.SeriesPoint{},
			Anomalies: []model.Anomaly{},
		}
	}

	mean, stdDev := meanAndStdDev(values)
	trend := movingAverage(values, trendWindow)

	points := make([]model.SeriesPoint, len(values))
	anomalies := make([]model.Anomaly, 0)
	for i, value := range values {
		points[i] = model.SeriesPoint{
			Timestamp: timestamps[i],
			Value:     value,
			Trend:     trend[i],
			Residual:  value - trend[i],
		}
		zScore := 0.0
		if stdDev > 0 {
			zScore = math.Abs(value-mean) / stdDev
		}
		// inclusive: a lone outlier among n-1 identical samples lands on
		// exactly 2 sigma and must still be flagged
		if zScore >= anomalyThreshold {
			anomalies = append(anomalies, model.Anomaly{
				Timestamp: timestamps[i],
				Value:     value,
				Expected:  mean,
				ZScore:    zScore,
				Severity:  severityFor(zScore),
			})
		}
	}

	if len(anomalies) > 0 {
		d.logger.Info(
			"flagged anomalous samples",
			zap.Int("anomaly_count", len(anomalies)),
			zap.Int("sample_count", len(values)),
			zap.Float64("mean", mean),
			zap.Float64("std_dev", stdDev),
		)
	}

	return model.AnomalyResult{
		Points:        points,
		Anomalies:     anomalies,
		ControlLimits: controlLimits(mean, stdDev),
	}
}

func severityFor(zScore float64) model.Severity {
	if zScore > criticalThreshold {
		return model.SeverityCritical
	}
	if zScore > warningThreshold {
		return model.SeverityWarning
	}
	return model.SeverityInfo
}

func controlLimits(mean, stdDev float64) model.ControlLimits {
	return model.ControlLimits{
		UpperLimit: mean + controlBandSigma*stdDev,
		CenterLine: mean,
		LowerLimit: math.Max(0, mean-controlBandSigma*stdDev),
	}
}

// meanAndStdDev computes the population standard deviation: the sum of
// squared deviations is divided by n, not n-1.
func meanAndStdDev(values []float64) (float64, float64) {
	var sum float64
	for _, value := range values {
		sum += value
	}
	mean := sum / float64(len(values))
	var squaredDeviations float64
	for _, value := range values {
		squaredDeviations += (value - mean) * (value - mean)
	}
	return mean, math.Sqrt(squaredDeviations / float64(len(values)))
}

// movingAverage is a centered moving average clamped at the series edges.
func movingAverage(values []float64, window int) []float64 {
	half := window / 2
	averaged := make([]float64, len(values))
	for i := range values {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(values)-1 {
			hi = len(values) - 1
		}
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += values[j]
		}
		averaged[i] = sum / float64(hi-lo+1)
	}
	return averaged
}
