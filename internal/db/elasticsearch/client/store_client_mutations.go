package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

func (c *StoreClientImpl) BulkIndex(
	ctx context.Context,
	metaInfo []MetaMap,
	documentInfo []DocumentMap,
	index string,
) error {
	var buf bytes.Buffer
	for i, meta := range metaInfo {
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("error marshaling bulk meta line: %w", err)
		}
		buf.Write(metaJSON)
		buf.WriteByte('\n')

		docJSON, err := json.Marshal(documentInfo[i])
		if err != nil {
			return fmt.Errorf("error marshaling bulk document line: %w", err)
		}
		buf.Write(docJSON)
		buf.WriteByte('\n')
	}

	res, err := c.es.Bulk(
		bytes.NewReader(buf.Bytes()),
		c.es.Bulk.WithIndex(index),
		c.es.Bulk.WithContext(ctx),
		c.es.Bulk.WithRefresh(c.refreshRate),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk index in Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk index error: %s", res.String())
	}
	return nil
}
