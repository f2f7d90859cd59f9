package trace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracelens/tracelens/internal/analysis/timeline"
	"github.com/tracelens/tracelens/internal/db/elasticsearch/client"
	"github.com/tracelens/tracelens/internal/trace/cache"
	spanModel "github.com/tracelens/tracelens/internal/trace/model"
	"go.uber.org/zap"
)

type fakeStoreClient struct {
	searchResults []map[string]interface{}
	searchCalls   int
}

func (f *fakeStoreClient) BulkIndex(
	ctx context.Context,
	metaInfo []client.MetaMap,
	documentInfo []client.DocumentMap,
	index string,
) error {
	return nil
}

func (f *fakeStoreClient) Search(
	ctx context.Context,
	query string,
	indices []string,
	queryResultSize *int,
) ([]map[string]interface{}, error) {
	f.searchCalls++
	return f.searchResults, nil
}

func (f *fakeStoreClient) Count(
	ctx context.Context,
	query string,
	indices []string,
) (int64, error) {
	return int64(len(f.searchResults)), nil
}

type mapTraceCache struct {
	spans map[string][]spanModel.Span
}

func newMapTraceCache() *mapTraceCache {
	return &mapTraceCache{spans: make(map[string][]spanModel.Span)}
}

func (m *mapTraceCache) Get(traceId string) ([]spanModel.Span, error) {
	spans, ok := m.spans[traceId]
	if !ok {
		return nil, cache.ErrKeyNotFound
	}
	return spans, nil
}

func (m *mapTraceCache) Put(traceId string, spans []spanModel.Span) error {
	m.spans[traceId] = spans
	return nil
}

func spanDocument(spanId string, parentSpanId string, startMs int64, endMs int64) map[string]interface{} {
	return map[string]interface{}{
		"span_id":        spanId,
		"parent_span_id": parentSpanId,
		"trace_id":       "trace1",
		"service_name":   "agent",
		"start_time":     time.UnixMilli(startMs).UTC().Format(time.RFC3339Nano),
		"end_time":       time.UnixMilli(endMs).UTC().Format(time.RFC3339Nano),
		"action_name":    "step",
		"span_kind":      "internal",
	}
}

func getNewTraceQueryService(sc client.StoreClient, tc cache.TraceCache) *TraceQueryServiceImpl {
	logger := zap.NewNop()
	return NewTraceQueryServiceImpl(sc, tc, timeline.NewAnalyzer(logger), 3.0, logger)
}

func TestGetTraceSpans(t *testing.T) {
	t.Run("Fetches spans from the store and caches them", func(t *testing.T) {
		sc := &fakeStoreClient{
			searchResults: []map[string]interface{}{
				spanDocument("a", "", 0, 100),
				spanDocument("b", "a", 10, 50),
			},
		}
		tc := newMapTraceCache()
		tqs := getNewTraceQueryService(sc, tc)

		spans, err := tqs.GetTraceSpans(context.Background(), "trace1")
		require.NoError(t, err)
		require.Len(t, spans, 2)
		assert.Equal(t, "a", spans[0].SpanID)
		assert.Equal(t, 1, sc.searchCalls)
		assert.Len(t, tc.spans["trace1"], 2)
	})

	t.Run("Serves repeated lookups from the cache", func(t *testing.T) {
		sc := &fakeStoreClient{
			searchResults: []map[string]interface{}{
				spanDocument("a", "", 0, 100),
			},
		}
		tc := newMapTraceCache()
		tqs := getNewTraceQueryService(sc, tc)

		_, err := tqs.GetTraceSpans(context.Background(), "trace1")
		require.NoError(t, err)
		_, err = tqs.GetTraceSpans(context.Background(), "trace1")
		require.NoError(t, err)
		assert.Equal(t, 1, sc.searchCalls)
	})

	t.Run("Returns ErrTraceNotFound when no spans match", func(t *testing.T) {
		sc := &fakeStoreClient{}
		tqs := getNewTraceQueryService(sc, newMapTraceCache())

		_, err := tqs.GetTraceSpans(context.Background(), "missing")
		assert.True(t, errors.Is(err, ErrTraceNotFound))
	})
}

func TestGetTraceTimeline(t *testing.T) {
	t.Run("Analyzes the stored spans into a timeline", func(t *testing.T) {
		sc := &fakeStoreClient{
			searchResults: []map[string]interface{}{
				spanDocument("a", "", 0, 100),
				spanDocument("b", "a", 10, 60),
			},
		}
		tqs := getNewTraceQueryService(sc, newMapTraceCache())

		result, err := tqs.GetTraceTimeline(context.Background(), "trace1")
		require.NoError(t, err)
		require.Len(t, result.Entries, 2)
		assert.Equal(t, 100.0, result.Summary.TotalDuration)
	})

	t.Run("Propagates ErrTraceNotFound", func(t *testing.T) {
		sc := &fakeStoreClient{}
		tqs := getNewTraceQueryService(sc, newMapTraceCache())

		_, err := tqs.GetTraceTimeline(context.Background(), "missing")
		assert.True(t, errors.Is(err, ErrTraceNotFound))
	})
}
