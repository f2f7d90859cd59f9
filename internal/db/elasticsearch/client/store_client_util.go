package client

import (
	"encoding/json"
	"fmt"
)

type MetaMap map[string]interface{}
type DocumentMap map[string]interface{}

// ToMetaAndDataMap splits documents into the meta and data lines the bulk
// API expects. A document carrying an _id field uses it as the index id.
func ToMetaAndDataMap[T any](values []T) ([]MetaMap, []DocumentMap, error) {
	dataMap := make([]DocumentMap, len(values))
	metaMap := make([]MetaMap, len(values))
	for i, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal value to JSON: %w", err)
		}
		var mapStruct map[string]interface{}
		if err := json.Unmarshal(data, &mapStruct); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal JSON to map: %w", err)
		}

		if id, ok := mapStruct["_id"]; ok {
			delete(mapStruct, "_id")
			metaMap[i] = map[string]interface{}{"index": map[string]interface{}{"_id": id}}
		} else {
			metaMap[i] = map[string]interface{}{"index": map[string]interface{}{}}
		}
		dataMap[i] = mapStruct
	}
	return metaMap, dataMap, nil
}
