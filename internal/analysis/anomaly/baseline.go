package anomaly

import (
	"math"
	"sync"
)

const (
	// warmUpSamples before the baseline's z-scores are considered reliable.
	warmUpSamples = 30
	// alphaCapCount caps the adaptive EWMA alpha at 2/1001.
	alphaCapCount = 1000

	cusumSlackSigma    = 0.5
	cusumDecisionSigma = 5.0
)

// Baseline tracks an exponentially weighted moving mean and variance of a
// single metric with O(1) updates. The alpha starts high for fast learning
// and decays with the sample count for a stable long-run baseline.
type Baseline struct {
	mu    sync.Mutex
	mean  float64
	vari  float64
	count uint64
}

func NewBaseline() *Baseline {
	return &Baseline{}
}

func (b *Baseline) Update(value float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count++
	alpha := 2.0 / (math.Min(float64(b.count), alphaCapCount) + 1.0)
	delta := value - b.mean
	b.mean += alpha * delta
	b.vari = (1.0 - alpha) * (b.vari + alpha*delta*delta)
}

// ZScore is 0 until the baseline is warmed up.
func (b *Baseline) ZScore(value float64) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count < warmUpSamples {
		return 0
	}
	stdDev := math.Max(math.Sqrt(b.vari), 1e-10)
	return (value - b.mean) / stdDev
}

func (b *Baseline) Mean() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mean
}

func (b *Baseline) WarmedUp() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count >= warmUpSamples
}

// CUSUM is a cumulative-sum control chart for detecting small sustained
// mean shifts, more sensitive than per-sample z-scores. Deviations beyond
// the slack k accumulate in one of two sums; an alarm fires when either
// exceeds the decision interval h.
type CUSUM struct {
	targetMean float64
	k          float64
	h          float64
	cPlus      float64
	cMinus     float64
	count      uint64
}

// CUSUMResult reports the state after one observation.
type CUSUMResult struct {
	Value         float64
	CPlus         float64
	CMinus        float64
	UpwardAlarm   bool
	DownwardAlarm bool
}

func (r CUSUMResult) HasAlarm() bool {
	return r.UpwardAlarm || r.DownwardAlarm
}

func NewCUSUM(targetMean, stdDev float64) *CUSUM {
	return &CUSUM{
		targetMean: targetMean,
		k:          cusumSlackSigma * stdDev,
		h:          cusumDecisionSigma * stdDev,
	}
}

func (c *CUSUM) Update(value float64) CUSUMResult {
	c.count++
	c.cPlus = math.Max(0, c.cPlus+value-c.targetMean-c.k)
	c.cMinus = math.Max(0, c.cMinus+c.targetMean-c.k-value)
	return CUSUMResult{
		Value:         value,
		CPlus:         c.cPlus,
		CMinus:        c.cMinus,
		UpwardAlarm:   c.cPlus > c.h,
		DownwardAlarm: c.cMinus > c.h,
	}
}

// Reset restarts the sums, typically after an alarm has been handled.
func (c *CUSUM) Reset() {
	c.cPlus = 0
	c.cMinus = 0
}
