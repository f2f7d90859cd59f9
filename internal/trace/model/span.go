package model

import "time"

// Span is the stored representation of one recorded unit of work, as
// ingested from OTLP and indexed in Elasticsearch.
type Span struct {
	Id           string            `json:"_id,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	SpanID       string            `json:"span_id"`
	ParentSpanID string            `json:"parent_span_id"`
	TraceID      string            `json:"trace_id"`
	ServiceName  string            `json:"service_name"`
	StartTime    time.Time         `json:"start_time"`
	EndTime      time.Time         `json:"end_time"`
	ActionName   string            `json:"action_name"`
	SpanKind     string            `json:"span_kind"`
	Attributes   map[string]string `json:"attributes"`
	Events       []SpanEvent       `json:"events"`
	Status       Status            `json:"status"`
}

type SpanEvent struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes"`
	Timestamp  time.Time         `json:"timestamp"`
}

type Status struct {
	Message string     `json:"message"`
	Code    StatusCode `json:"code"`
}

type StatusCode string

const (
	UNSET StatusCode = "unset"
	OK    StatusCode = "ok"
	ERROR StatusCode = "error"
)
