package trace

func getTraceSpansQuery(traceId string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{
					{
						"term": map[string]interface{}{
							"trace_id": traceId,
						},
					},
				},
			},
		},
		"sort": []map[string]interface{}{
			{
				"start_time": map[string]interface{}{
					"order": "asc",
				},
			},
		},
	}
}

func getTraceExistsQuery(traceId string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"trace_id": traceId,
			},
		},
	}
}
