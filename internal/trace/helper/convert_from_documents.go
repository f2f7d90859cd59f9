package helper

import (
	"fmt"
	"time"

	spanModel "github.com/tracelens/tracelens/internal/trace/model"
)

// ConvertFromDocuments converts Elasticsearch span hits into typed spans.
func ConvertFromDocuments(res []map[string]interface{}) ([]spanModel.Span, error) {
	var spans []spanModel.Span
	for _, hit := range res {
		doc := spanModel.Span{}

		id, ok := hit["_id"].(string)
		if ok {
			doc.Id = id
		}

		spanId, ok := hit["span_id"].(string)
		if !ok {
			return nil, fmt.Errorf("failed to convert span_id to string %s", hit["span_id"])
		}
		doc.SpanID = spanId

		parentSpanId, ok := hit["parent_span_id"].(string)
		if !ok {
			return nil, fmt.Errorf("failed to convert parent_span_id to string %s", hit["parent_span_id"])
		}
		doc.ParentSpanID = parentSpanId

		traceId, ok := hit["trace_id"].(string)
		if !ok {
			return nil, fmt.Errorf("failed to convert trace_id to string %s", hit["trace_id"])
		}
		doc.TraceID = traceId

		serviceName, ok := hit["service_name"].(string)
		if !ok {
			return nil, fmt.Errorf("failed to convert service_name to string %s", hit["service_name"])
		}
		doc.ServiceName = serviceName

		startTime, ok := hit["start_time"].(string)
		if !ok {
			return nil, fmt.Errorf("failed to convert start_time to string %s", hit["start_time"])
		}
		startTimeParsed, err := parseTimeField(startTime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse start_time to time.Time: %w", err)
		}
		doc.StartTime = startTimeParsed

		endTime, ok := hit["end_time"].(string)
		if !ok {
			return nil, fmt.Errorf("failed to convert end_time to string %s", hit["end_time"])
		}
		endTimeParsed, err := parseTimeField(endTime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse end_time to time.Time: %w", err)
		}
		doc.EndTime = endTimeParsed

		actionName, ok := hit["action_name"].(string)
		if !ok {
			return nil, fmt.Errorf("failed to convert action_name to string %s", hit["action_name"])
		}
		doc.ActionName = actionName

		spanKind, ok := hit["span_kind"].(string)
		if !ok {
			return nil, fmt.Errorf("failed to convert span_kind to string %s", hit["span_kind"])
		}
		doc.SpanKind = spanKind

		if attributes, ok := hit["attributes"].(map[string]interface{}); ok {
			doc.Attributes = typeAttributes(attributes)
		} else {
			doc.Attributes = map[string]string{}
		}

		if status, ok := hit["status"].(map[string]interface{}); ok {
			doc.Status = typeStatus(status)
		}

		if events, ok := hit["events"].([]interface{}); ok {
			doc.Events = make([]spanModel.SpanEvent, len(events))
			for i, event := range events {
				doc.Events[i] = typeEvent(event)
			}
		}

		spans = append(spans, doc)
	}
	return spans, nil
}

func parseTimeField(timestamp string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, timestamp)
}

func typeEvent(event interface{}) spanModel.SpanEvent {
	eventMap, ok := event.(map[string]interface{})
	if !ok {
		return spanModel.SpanEvent{}
	}
	eventName, _ := eventMap["name"].(string)
	typedAttributes := map[string]string{}
	if eventAttributes, ok := eventMap["attributes"].(map[string]interface{}); ok {
		typedAttributes = typeAttributes(eventAttributes)
	}
	var eventTimestampParsed time.Time
	if eventTimestamp, ok := eventMap["timestamp"].(string); ok {
		eventTimestampParsed, _ = parseTimeField(eventTimestamp)
	}
	return spanModel.SpanEvent{
		Name:       eventName,
		Attributes: typedAttributes,
		Timestamp:  eventTimestampParsed,
	}
}

func typeStatus(status map[string]interface{}) spanModel.Status {
	message, _ := status["message"].(string)
	code, _ := status["code"].(string)
	switch spanModel.StatusCode(code) {
	case spanModel.OK:
		return spanModel.Status{Message: message, Code: spanModel.OK}
	case spanModel.ERROR:
		return spanModel.Status{Message: message, Code: spanModel.ERROR}
	default:
		return spanModel.Status{Message: message, Code: spanModel.UNSET}
	}
}

func typeAttributes(attributes map[string]interface{}) map[string]string {
	typedAttributes := make(map[string]string)
	for k, v := range attributes {
		typedAttributes[k] = fmt.Sprintf("%v", v)
	}
	return typedAttributes
}
