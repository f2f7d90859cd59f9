package layout

import (
	"strconv"

	"github.com/tracelens/tracelens/internal/analysis/model"
)

const defaultNodeType = "span"

func buildNode(span model.Span, layer int, position model.Position) model.Node {
	return model.Node{
		Id:        span.SpanID,
		Type:      nodeType(span),
		Label:     nodeLabel(span),
		Layer:     layer,
		Position:  position,
		CallCount: intAttribute(span, model.AttributeCallCount),
		Duration:  span.DurationMs(),
		Tokens:    intAttribute(span, model.AttributeTotalTokens),
		Cost:      floatAttribute(span, model.AttributeCostUSD),
	}
}

func nodeType(span model.Span) string {
	if spanType, ok := span.Attributes[model.AttributeSpanType]; ok && spanType != "" {
		return spanType
	}
	return defaultNodeType
}

func nodeLabel(span model.Span) string {
	if service, ok := span.Attributes[model.AttributeServiceName]; ok && service != "" {
		return service + ": " + span.Name
	}
	return span.Name
}

func intAttribute(span model.Span, key string) int64 {
	raw, ok := span.Attributes[key]
	if !ok {
		return 0
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return value
}

func floatAttribute(span model.Span, key string) float64 {
	raw, ok := span.Attributes[key]
	if !ok {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}
