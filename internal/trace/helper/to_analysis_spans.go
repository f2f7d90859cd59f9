package helper

import (
	analysisModel "github.com/tracelens/tracelens/internal/analysis/model"
	spanModel "github.com/tracelens/tracelens/internal/trace/model"
)

// ToAnalysisSpans converts stored spans into the flat representation the
// analysis engine consumes. Span kind and service name are folded into the
// attribute map so the engine only has to look in one place.
func ToAnalysisSpans(spans []spanModel.Span) []analysisModel.Span {
	analysisSpans := make([]analysisModel.Span, len(spans))
	for i, span := range spans {
		attributes := make(map[string]string, len(span.Attributes)+2)
		for k, v := range span.Attributes {
			attributes[k] = v
		}
		if span.SpanKind != "" {
			attributes[analysisModel.AttributeSpanKind] = span.SpanKind
		}
		if span.ServiceName != "" {
			attributes[analysisModel.AttributeServiceName] = span.ServiceName
		}
		status := ""
		if span.Status.Code == spanModel.ERROR {
			status = analysisModel.StatusError
		}
		analysisSpans[i] = analysisModel.Span{
			SpanID:       span.SpanID,
			ParentSpanID: span.ParentSpanID,
			Name:         span.ActionName,
			StartTime:    analysisModel.Timestamp{Ms: float64(span.StartTime.UnixNano()) / 1e6},
			EndTime:      analysisModel.Timestamp{Ms: float64(span.EndTime.UnixNano()) / 1e6},
			Status:       status,
			Attributes:   attributes,
		}
	}
	return analysisSpans
}
