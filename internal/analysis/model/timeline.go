package model

// TimelineEntry is the per-span output of the timeline analyzer.
type TimelineEntry struct {
	SpanID           string  `json:"span_id"`
	Depth            int     `json:"depth"`
	IsOnCriticalPath bool    `json:"is_on_critical_path"`
	IsParallel       bool    `json:"is_parallel"`
	StartMs          float64 `json:"start_ms"`
	EndMs            float64 `json:"end_ms"`
	DurationMs       float64 `json:"duration_ms"`
}

// TimelineSummary aggregates a whole trace. CriticalPathDuration is the
// wall-clock span of the critical-path spans, not the sum of their
// durations: summing double-counts time a parent's duration already covers.
type TimelineSummary struct {
	TotalDuration        float64 `json:"total_duration_ms"`
	CriticalPathDuration float64 `json:"critical_path_duration_ms"`
	ParallelismScore     float64 `json:"parallelism_score"`
	ExternalCallCount    int     `json:"external_call_count"`
}

type TimelineResult struct {
	Entries []TimelineEntry `json:"entries"`
	Summary TimelineSummary `json:"summary"`
}
