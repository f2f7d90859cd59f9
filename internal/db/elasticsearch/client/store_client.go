package client

import (
	"context"

	"github.com/elastic/go-elasticsearch/v8"
)

const SearchResultSize = 10

type RefreshRate string

const (
	// Wait for the changes made by the request to be made visible by a refresh before replying.
	Wait RefreshRate = "wait_for"
	// Immediate refreshes the relevant primary and replica shards immediately after the operation occurs.
	Immediate RefreshRate = "true"
	// Async takes no refresh related actions; changes become visible at some point after the request returns.
	Async RefreshRate = "false"
)

type StoreClient interface {
	// BulkIndex indexes (inserts) multiple documents in the same index
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/docs-bulk.html
	BulkIndex(ctx context.Context, metaInfo []MetaMap, documentInfo []DocumentMap, index string) error
	// Search searches for documents in the index
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/search-search.html
	// queryResultSize is the number of results to return, nil for default
	Search(ctx context.Context, query string, indices []string, queryResultSize *int) ([]map[string]interface{}, error)
	// Count counts the number of documents in the index matching the query
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/search-count.html
	Count(ctx context.Context, query string, indices []string) (int64, error)
}

type StoreClientImpl struct {
	es          *elasticsearch.Client
	refreshRate string
}

func NewStoreClientImpl(es *elasticsearch.Client, refreshRate RefreshRate) *StoreClientImpl {
	return &StoreClientImpl{es: es, refreshRate: string(refreshRate)}
}
