package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	analysisModel "github.com/tracelens/tracelens/internal/analysis/model"
	spanModel "github.com/tracelens/tracelens/internal/trace/model"
)

func TestConvertFromDocuments(t *testing.T) {
	t.Run("Converts a complete span document", func(t *testing.T) {
		docs := []map[string]interface{}{
			{
				"_id":            "doc1",
				"span_id":        "a",
				"parent_span_id": "",
				"trace_id":       "trace1",
				"service_name":   "agent",
				"start_time":     "2023-11-14T22:13:20Z",
				"end_time":       "2023-11-14T22:13:21Z",
				"action_name":    "plan",
				"span_kind":      "internal",
				"attributes": map[string]interface{}{
					"llm.total_tokens": float64(120),
				},
				"status": map[string]interface{}{
					"message": "boom",
					"code":    "error",
				},
			},
		}
		spans, err := ConvertFromDocuments(docs)
		require.NoError(t, err)
		require.Len(t, spans, 1)
		assert.Equal(t, "doc1", spans[0].Id)
		assert.Equal(t, "a", spans[0].SpanID)
		assert.Equal(t, "trace1", spans[0].TraceID)
		assert.Equal(t, "agent", spans[0].ServiceName)
		assert.Equal(t, "plan", spans[0].ActionName)
		assert.Equal(t, "internal", spans[0].SpanKind)
		assert.Equal(t, "120", spans[0].Attributes["llm.total_tokens"])
		assert.Equal(t, spanModel.ERROR, spans[0].Status.Code)
		assert.Equal(t, time.Second, spans[0].EndTime.Sub(spans[0].StartTime))
	})

	t.Run("Unknown status codes map to unset", func(t *testing.T) {
		docs := []map[string]interface{}{
			{
				"span_id":        "a",
				"parent_span_id": "",
				"trace_id":       "trace1",
				"service_name":   "agent",
				"start_time":     "2023-11-14T22:13:20Z",
				"end_time":       "2023-11-14T22:13:21Z",
				"action_name":    "plan",
				"span_kind":      "internal",
				"status": map[string]interface{}{
					"message": "",
					"code":    "something_else",
				},
			},
		}
		spans, err := ConvertFromDocuments(docs)
		require.NoError(t, err)
		assert.Equal(t, spanModel.UNSET, spans[0].Status.Code)
	})

	t.Run("Returns an error on a missing required field", func(t *testing.T) {
		docs := []map[string]interface{}{
			{
				"span_id": "a",
			},
		}
		_, err := ConvertFromDocuments(docs)
		assert.Error(t, err)
	})
}

func TestToAnalysisSpans(t *testing.T) {
	t.Run("Folds span kind and service name into attributes", func(t *testing.T) {
		stored := []spanModel.Span{
			{
				SpanID:       "a",
				ParentSpanID: "",
				ServiceName:  "agent",
				ActionName:   "call_llm",
				SpanKind:     "client",
				StartTime:    time.UnixMilli(1000).UTC(),
				EndTime:      time.UnixMilli(1500).UTC(),
				Attributes:   map[string]string{"llm.cost_usd": "0.02"},
				Status:       spanModel.Status{Code: spanModel.ERROR},
			},
		}
		spans := ToAnalysisSpans(stored)
		require.Len(t, spans, 1)
		assert.Equal(t, "a", spans[0].SpanID)
		assert.Equal(t, "call_llm", spans[0].Name)
		assert.Equal(t, 1000.0, spans[0].StartTime.Ms)
		assert.Equal(t, 500.0, spans[0].DurationMs())
		assert.Equal(t, "client", spans[0].Attributes[analysisModel.AttributeSpanKind])
		assert.Equal(t, "agent", spans[0].Attributes[analysisModel.AttributeServiceName])
		assert.Equal(t, "0.02", spans[0].Attributes["llm.cost_usd"])
		assert.True(t, spans[0].IsError())
	})

	t.Run("Non-error statuses leave the status field empty", func(t *testing.T) {
		stored := []spanModel.Span{
			{SpanID: "a", Status: spanModel.Status{Code: spanModel.OK}},
		}
		spans := ToAnalysisSpans(stored)
		require.Len(t, spans, 1)
		assert.False(t, spans[0].IsError())
	})
}
