package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tracelens/tracelens/internal/db/elasticsearch/model"
)

func (c *StoreClientImpl) Search(
	ctx context.Context,
	query string,
	indices []string,
	queryResultSize *int,
) ([]map[string]interface{}, error) {
	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(indices...),
		c.es.Search.WithBody(strings.NewReader(query)),
		c.es.Search.WithSize(getQuerySize(queryResultSize)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("failed to execute query: %s", res.String())
	}

	var esResponse model.EsResponse
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	var results []map[string]interface{}
	for _, hit := range esResponse.Hits.HitArray {
		results = append(results, hit.Source)
		results[len(results)-1]["_id"] = hit.ID
	}
	return results, nil
}

func (c *StoreClientImpl) Count(
	ctx context.Context,
	query string,
	indices []string,
) (int64, error) {
	res, err := c.es.Count(
		c.es.Count.WithContext(ctx),
		c.es.Count.WithIndex(indices...),
		c.es.Count.WithBody(strings.NewReader(query)),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("failed to execute count query: %s", res.String())
	}

	var countResponse model.CountResponse
	if err := json.NewDecoder(res.Body).Decode(&countResponse); err != nil {
		return 0, fmt.Errorf("failed to decode response body: %w", err)
	}
	return int64(countResponse.Count), nil
}

func getQuerySize(queryResultSize *int) int {
	if queryResultSize == nil {
		return SearchResultSize
	}
	return *queryResultSize
}
