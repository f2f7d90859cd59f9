package bootstrapper

const SpanIndexName = "span_index"

var spanIndex = map[string]interface{}{
	"settings": map[string]interface{}{
		"number_of_shards":   1,
		"number_of_replicas": 1,
	},
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"created_at": map[string]interface{}{
				"type": "date",
			},
			"span_id": map[string]interface{}{
				"type": "keyword",
			},
			"parent_span_id": map[string]interface{}{
				"type": "keyword",
			},
			"trace_id": map[string]interface{}{
				"type": "keyword",
			},
			"service_name": map[string]interface{}{
				"type": "keyword",
			},
			"action_name": map[string]interface{}{
				"type": "keyword",
			},
			"span_kind": map[string]interface{}{
				"type": "keyword",
			},
			"start_time": map[string]interface{}{
				"type":   "date",
				"format": "strict_date_optional_time_nanos",
			},
			"end_time": map[string]interface{}{
				"type":   "date",
				"format": "strict_date_optional_time_nanos",
			},
			"attributes": map[string]interface{}{
				"type": "object",
			},
			"status": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"message": map[string]interface{}{
						"type": "text",
					},
					"code": map[string]interface{}{
						"type": "keyword",
					},
				},
			},
		},
	},
}
