package model

const StatusError = "error"

// Attribute keys consulted for node classification and echo-through metrics.
// Lookups default to the zero value when the key is missing.
const (
	AttributeSpanType    = "span.type"
	AttributeSpanKind    = "span.kind"
	AttributeServiceName = "service.name"
	AttributeCallCount   = "call.count"
	AttributeTotalTokens = "llm.total_tokens"
	AttributeCostUSD     = "llm.cost_usd"
)

// Span is the engine's input shape: one recorded unit of work with an
// optional parent reference. Attributes are consumed read-only.
type Span struct {
	SpanID       string            `json:"span_id"`
	ParentSpanID string            `json:"parent_span_id,omitempty"`
	Name         string            `json:"name"`
	StartTime    Timestamp         `json:"start_time"`
	EndTime      Timestamp         `json:"end_time"`
	Status       string            `json:"status"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}

// DurationMs is taken as given, even if negative in malformed input.
func (s Span) DurationMs() float64 {
	return s.EndTime.Ms - s.StartTime.Ms
}

func (s Span) IsError() bool {
	return s.Status == StatusError
}
