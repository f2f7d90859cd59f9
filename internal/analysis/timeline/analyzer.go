package timeline

import (
	"strings"

	"github.com/tracelens/tracelens/internal/analysis/graph"
	"github.com/tracelens/tracelens/internal/analysis/model"
	"go.uber.org/zap"
)

const clientSpanKind = "client"

type Analyzer struct {
	logger *zap.Logger
}

func NewAnalyzer(logger *zap.Logger) *Analyzer {
	return &Analyzer{
		logger: logger,
	}
}

// Analyze derives per-span depth, critical-path and parallelism flags, and
// the trace summary from a flat span collection. Zero spans yield a
// zero-valued result rather than an error so the visualization layer always
// has something to render.
func (a *Analyzer) Analyze(spans []model.Span) model.TimelineResult {
	if len(spans) == 0 {
		return model.TimelineResult{Entries: []model.TimelineEntry{}}
	}

	spansById := make(map[string]model.Span, len(spans))
	for _, span := range spans {
		spansById[span.SpanID] = span
	}

	depths := computeDepths(spans, spansById)
	adjacency := graph.BuildAdjacency(spans)
	criticalPath, chainWeight := findCriticalPath(adjacency, spansById)
	onCriticalPath := make(map[string]bool, len(criticalPath))
	for _, id := range criticalPath {
		onCriticalPath[id] = true
	}
	parallel := detectParallelSpans(spans, depths)

	entries := make([]model.TimelineEntry, len(spans))
	for i, span := range spans {
		entries[i] = model.TimelineEntry{
			SpanID:           span.SpanID,
			Depth:            depths[span.SpanID],
			IsOnCriticalPath: onCriticalPath[span.SpanID],
			IsParallel:       parallel[span.SpanID],
			StartMs:          span.StartTime.Ms,
			EndMs:            span.EndTime.Ms,
			DurationMs:       span.DurationMs(),
		}
	}

	summary := a.summarize(spans, spansById, criticalPath)
	a.logger.Debug(
		"analyzed trace timeline",
		zap.Int("span_count", len(spans)),
		zap.Int("critical_path_length", len(criticalPath)),
		zap.Float64("chain_weight_ms", chainWeight),
		zap.Float64("critical_path_duration_ms", summary.CriticalPathDuration),
	)
	return model.TimelineResult{
		Entries: entries,
		Summary: summary,
	}
}

// summarize reports the wall-clock span of the critical-path spans, not the
// sum of their durations: the chain weight used to select the path and the
// duration reported here are different quantities.
func (a *Analyzer) summarize(
	spans []model.Span,
	spansById map[string]model.Span,
	criticalPath []string,
) model.TimelineSummary {
	totalDuration := wallClockSpan(spans)

	criticalSpans := make([]model.Span, 0, len(criticalPath))
	for _, id := range criticalPath {
		criticalSpans = append(criticalSpans, spansById[id])
	}
	criticalDuration := wallClockSpan(criticalSpans)

	var durationSum float64
	externalCalls := 0
	for _, span := range spans {
		durationSum += span.DurationMs()
		if isExternalCall(span) {
			externalCalls++
		}
	}
	parallelismScore := 0.0
	if totalDuration > 0 {
		parallelismScore = durationSum / totalDuration
	}

	return model.TimelineSummary{
		TotalDuration:        totalDuration,
		CriticalPathDuration: criticalDuration,
		ParallelismScore:     parallelismScore,
		ExternalCallCount:    externalCalls,
	}
}

func wallClockSpan(spans []model.Span) float64 {
	if len(spans) == 0 {
		return 0
	}
	minStart := spans[0].StartTime.Ms
	maxEnd := spans[0].EndTime.Ms
	for _, span := range spans[1:] {
		if span.StartTime.Ms < minStart {
			minStart = span.StartTime.Ms
		}
		if span.EndTime.Ms > maxEnd {
			maxEnd = span.EndTime.Ms
		}
	}
	return maxEnd - minStart
}

// computeDepths resolves depth as 1 + parent's depth, memoized across the
// whole trace. The parent chain is walked with an explicit stack and a
// visiting set so deep traces cannot blow the call stack and a cyclic
// parent reference yields depth 0 for the offending span instead of
// looping forever.
func computeDepths(spans []model.Span, spansById map[string]model.Span) map[string]int {
	depths := make(map[string]int, len(spans))
	for _, span := range spans {
		if _, ok := depths[span.SpanID]; ok {
			continue
		}
		chain := make([]string, 0, 8)
		visiting := make(map[string]bool)
		current := span.SpanID
		base := 0
		for {
			if depth, ok := depths[current]; ok {
				base = depth
				break
			}
			if visiting[current] {
				// cycle: the offending span restarts at depth 0
				depths[current] = 0
				base = 0
				break
			}
			visiting[current] = true
			chain = append(chain, current)
			parentId := spansById[current].ParentSpanID
			if parentId == "" {
				depths[current] = 0
				chain = chain[:len(chain)-1]
				base = 0
				break
			}
			if _, ok := spansById[parentId]; !ok {
				// dangling parent reference is treated as a root
				depths[current] = 0
				chain = chain[:len(chain)-1]
				base = 0
				break
			}
			current = parentId
		}
		for i := len(chain) - 1; i >= 0; i-- {
			base++
			if _, ok := depths[chain[i]]; !ok {
				depths[chain[i]] = base
			}
		}
	}
	return depths
}

// detectParallelSpans flags spans whose [start, end) interval overlaps at
// least one other span at the same depth. The per-bucket scan is O(n^2),
// acceptable at typical trace sizes of a few hundred spans.
func detectParallelSpans(spans []model.Span, depths map[string]int) map[string]bool {
	byDepth := make(map[int][]model.Span)
	for _, span := range spans {
		depth := depths[span.SpanID]
		byDepth[depth] = append(byDepth[depth], span)
	}
	parallel := make(map[string]bool, len(spans))
	for _, bucket := range byDepth {
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				if intervalsOverlap(bucket[i], bucket[j]) {
					parallel[bucket[i].SpanID] = true
					parallel[bucket[j].SpanID] = true
				}
			}
		}
	}
	return parallel
}

func intervalsOverlap(a, b model.Span) bool {
	return a.StartTime.Ms < b.EndTime.Ms && a.EndTime.Ms > b.StartTime.Ms
}

// isExternalCall classifies reporting-only "external" spans: client-kind
// spans and spans whose name mentions http or api.
func isExternalCall(span model.Span) bool {
	if kind, ok := span.Attributes[model.AttributeSpanKind]; ok {
		if strings.EqualFold(kind, clientSpanKind) {
			return true
		}
	}
	name := strings.ToLower(span.Name)
	return strings.Contains(name, "http") || strings.Contains(name, "api")
}
