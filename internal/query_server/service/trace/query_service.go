package trace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tracelens/tracelens/internal/analysis/anomaly"
	analysisModel "github.com/tracelens/tracelens/internal/analysis/model"
	"github.com/tracelens/tracelens/internal/analysis/timeline"
	"github.com/tracelens/tracelens/internal/db/elasticsearch/bootstrapper"
	"github.com/tracelens/tracelens/internal/db/elasticsearch/client"
	"github.com/tracelens/tracelens/internal/trace/cache"
	"github.com/tracelens/tracelens/internal/trace/helper"
	spanModel "github.com/tracelens/tracelens/internal/trace/model"
	"go.uber.org/zap"
)

const timeout = 10 * time.Second
const querySize = 10000

var ErrTraceNotFound = errors.New("no spans found for the given trace id")

// TraceQueryService serves trace lookups for the analysis endpoints. Reads
// go through the ristretto cache first and fall back to Elasticsearch.
type TraceQueryService interface {
	GetTraceSpans(ctx context.Context, traceId string) ([]spanModel.Span, error)
	GetTraceTimeline(ctx context.Context, traceId string) (analysisModel.TimelineResult, error)
}

type TraceQueryServiceImpl struct {
	sc               client.StoreClient
	traceCache       cache.TraceCache
	timelineAnalyzer *timeline.Analyzer
	durationBaseline *anomaly.Baseline
	sensitivitySigma float64
	logger           *zap.Logger
}

func NewTraceQueryServiceImpl(
	sc client.StoreClient,
	traceCache cache.TraceCache,
	timelineAnalyzer *timeline.Analyzer,
	sensitivitySigma float64,
	logger *zap.Logger,
) *TraceQueryServiceImpl {
	return &TraceQueryServiceImpl{
		sc:               sc,
		traceCache:       traceCache,
		timelineAnalyzer: timelineAnalyzer,
		durationBaseline: anomaly.NewBaseline(),
		sensitivitySigma: sensitivitySigma,
		logger:           logger,
	}
}

func (tqs *TraceQueryServiceImpl) GetTraceSpans(
	ctx context.Context,
	traceId string,
) ([]spanModel.Span, error) {
	cachedSpans, err := tqs.traceCache.Get(traceId)
	if err == nil {
		return cachedSpans, nil
	}
	if !errors.Is(err, cache.ErrKeyNotFound) {
		tqs.logger.Warn("Error when reading trace from cache", zap.Error(err))
	}

	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	countQueryJson, err := json.Marshal(getTraceExistsQuery(traceId))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trace exists query: %w", err)
	}
	count, err := tqs.sc.Count(queryCtx, string(countQueryJson), []string{bootstrapper.SpanIndexName})
	if err != nil {
		tqs.logger.Error("Error when counting trace spans", zap.Error(err))
		return nil, err
	}
	if count == 0 {
		return nil, ErrTraceNotFound
	}

	queryJson, err := json.Marshal(getTraceSpansQuery(traceId))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trace spans query: %w", err)
	}
	localQuerySize := querySize
	res, err := tqs.sc.Search(
		queryCtx,
		string(queryJson),
		[]string{bootstrapper.SpanIndexName},
		&localQuerySize,
	)
	if err != nil {
		tqs.logger.Error("Error when searching for trace spans", zap.Error(err))
		return nil, err
	}
	spans, err := helper.ConvertFromDocuments(res)
	if err != nil {
		tqs.logger.Error("Error when converting search result to spans", zap.Error(err))
		return nil, err
	}
	if cacheErr := tqs.traceCache.Put(traceId, spans); cacheErr != nil {
		tqs.logger.Warn("Error when caching trace spans", zap.Error(cacheErr))
	}
	return spans, nil
}

func (tqs *TraceQueryServiceImpl) GetTraceTimeline(
	ctx context.Context,
	traceId string,
) (analysisModel.TimelineResult, error) {
	spans, err := tqs.GetTraceSpans(ctx, traceId)
	if err != nil {
		return analysisModel.TimelineResult{}, err
	}
	result := tqs.timelineAnalyzer.Analyze(helper.ToAnalysisSpans(spans))
	tqs.observeTraceDuration(traceId, result.Summary.TotalDuration)
	return result, nil
}

// observeTraceDuration feeds the running duration baseline and logs traces
// whose wall-clock duration drifts past the configured sensitivity.
func (tqs *TraceQueryServiceImpl) observeTraceDuration(traceId string, totalDuration float64) {
	zScore := tqs.durationBaseline.ZScore(totalDuration)
	tqs.durationBaseline.Update(totalDuration)
	if zScore > tqs.sensitivitySigma {
		tqs.logger.Info(
			"Trace duration deviates from baseline",
			zap.String("trace_id", traceId),
			zap.Float64("duration_ms", totalDuration),
			zap.Float64("z_score", zScore),
			zap.Float64("baseline_mean_ms", tqs.durationBaseline.Mean()),
		)
	}
}
