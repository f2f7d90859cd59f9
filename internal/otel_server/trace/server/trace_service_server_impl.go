package server

import (
	"context"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tracelens/tracelens/internal/db/write_buffer"
	"github.com/tracelens/tracelens/internal/trace/model"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	commonv1 "go.opentelemetry.io/proto/otlp/common/v1"
	"go.opentelemetry.io/proto/otlp/trace/v1"
	"go.uber.org/zap"
)

type TraceServiceServerImpl struct {
	protoTrace.UnimplementedTraceServiceServer
	writeBuffer write_buffer.DatabaseWriteBuffer[model.Span]
	logger      *zap.Logger
}

func NewTraceServiceServerImpl(
	logger *zap.Logger,
	dbWriteBuffer write_buffer.DatabaseWriteBuffer[model.Span],
) TraceServiceServerImpl {
	logger.Info("Creating new TraceServiceServerImpl")
	return TraceServiceServerImpl{
		logger:      logger,
		writeBuffer: dbWriteBuffer,
	}
}

func (tss TraceServiceServerImpl) Export(
	ctx context.Context,
	req *protoTrace.ExportTraceServiceRequest,
) (*protoTrace.ExportTraceServiceResponse, error) {
	for _, resourceSpan := range req.ResourceSpans {
		serviceName := getServiceName(resourceSpan)
		if serviceName == "Never Assigned" {
			tss.logger.Warn("Service name not found in resource span")
		}

		typedSpans := getTypedSpans(resourceSpan, serviceName)
		tss.writeBuffer.WriteToBuffer(typedSpans)
	}

	return &protoTrace.ExportTraceServiceResponse{}, nil
}

func getServiceName(resourceSpan *v1.ResourceSpans) string {
	var serviceName = "Never Assigned"
	for _, attr := range resourceSpan.GetResource().GetAttributes() {
		if attr.Key == "service.name" {
			serviceName = attr.Value.GetStringValue()
		}
	}
	return serviceName
}

func getTypedSpans(resourceSpan *v1.ResourceSpans, serviceName string) []model.Span {
	var typedSpans []model.Span
	for _, libSpan := range resourceSpan.ScopeSpans {
		for _, span := range libSpan.Spans {
			typedSpans = append(typedSpans, getTypedSpan(span, serviceName))
		}
	}
	return typedSpans
}

func getTypedSpan(span *v1.Span, serviceName string) model.Span {
	startTime := time.Unix(0, int64(span.StartTimeUnixNano))
	endTime := time.Unix(0, int64(span.EndTimeUnixNano))
	spanId := hex.EncodeToString(span.SpanId)
	parentSpanId := hex.EncodeToString(span.ParentSpanId)
	traceId := hex.EncodeToString(span.TraceId)
	attributes := getAttributes(span)
	events := getEvents(span)
	spanKind := getSpanKind(span)
	spanStatus := getStatus(span)

	return model.Span{
		Id:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		SpanID:       spanId,
		ParentSpanID: parentSpanId,
		TraceID:      traceId,
		ServiceName:  serviceName,
		StartTime:    startTime,
		EndTime:      endTime,
		ActionName:   span.Name,
		Attributes:   attributes,
		Events:       events,
		SpanKind:     spanKind,
		Status:       spanStatus,
	}
}

func getEvents(span *v1.Span) []model.SpanEvent {
	events := make([]model.SpanEvent, len(span.Events))
	for i, event := range span.Events {
		eventAttributes := make(map[string]string)
		for _, attribute := range event.Attributes {
			eventAttributes[attribute.Key] = getAttributeValue(attribute.Value)
		}
		events[i] = model.SpanEvent{
			Name:       event.Name,
			Attributes: eventAttributes,
			Timestamp:  time.Unix(0, int64(event.TimeUnixNano)),
		}
	}
	return events
}

func getAttributes(span *v1.Span) map[string]string {
	attributes := make(map[string]string)
	for _, attribute := range span.Attributes {
		attributes[attribute.Key] = getAttributeValue(attribute.Value)
	}
	return attributes
}

// getAttributeValue flattens an OTLP AnyValue to a string. Numeric values
// like call.count and llm.total_tokens have to survive the round trip, so
// non-string primitives are formatted rather than dropped. An unset value is
// a well-formed message and maps to the empty string.
func getAttributeValue(value *commonv1.AnyValue) string {
	if value == nil {
		return ""
	}
	switch typedValue := value.Value.(type) {
	case *commonv1.AnyValue_StringValue:
		return typedValue.StringValue
	case *commonv1.AnyValue_IntValue:
		return strconv.FormatInt(typedValue.IntValue, 10)
	case *commonv1.AnyValue_DoubleValue:
		return strconv.FormatFloat(typedValue.DoubleValue, 'f', -1, 64)
	case *commonv1.AnyValue_BoolValue:
		return strconv.FormatBool(typedValue.BoolValue)
	default:
		return value.String()
	}
}

func getSpanKind(span *v1.Span) string {
	switch span.Kind {
	case v1.Span_SPAN_KIND_INTERNAL:
		return "internal"
	case v1.Span_SPAN_KIND_SERVER:
		return "server"
	case v1.Span_SPAN_KIND_CLIENT:
		return "client"
	case v1.Span_SPAN_KIND_PRODUCER:
		return "producer"
	case v1.Span_SPAN_KIND_CONSUMER:
		return "consumer"
	default:
		return "unspecified"
	}
}

func getStatus(span *v1.Span) model.Status {
	if span.Status.Code == 0 {
		return model.Status{
			Message: span.Status.Message,
			Code:    model.UNSET,
		}
	}
	if span.Status.Code == 1 {
		return model.Status{
			Message: span.Status.Message,
			Code:    model.OK,
		}
	}
	return model.Status{
		Message: span.Status.Message,
		Code:    model.ERROR,
	}
}
