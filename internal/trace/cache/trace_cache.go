package cache

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/tracelens/tracelens/internal/trace/model"
)

var (
	ErrKeyNotFound = errors.New("key not found within the cache")
	ErrSetFailed   = errors.New("failed to set value in cache")
)

// TraceCache holds recently queried traces keyed by trace ID so repeated
// analysis requests for the same trace skip the Elasticsearch round trip.
// Eviction is based on LRU and LFU policies.
type TraceCache interface {
	Get(traceId string) ([]model.Span, error)
	Put(traceId string, spans []model.Span) error
}

type TraceCacheImpl struct {
	cache *ristretto.Cache
}

func NewTraceCacheImpl(cache *ristretto.Cache) *TraceCacheImpl {
	return &TraceCacheImpl{
		cache: cache,
	}
}

func (tc *TraceCacheImpl) Get(traceId string) ([]model.Span, error) {
	value, found := tc.cache.Get(traceId)
	if !found {
		return nil, ErrKeyNotFound
	}
	typedValue, ok := value.([]model.Span)
	if !ok {
		return nil, fmt.Errorf("value not of expected type %T returned from cache when getting", value)
	}

	return typedValue, nil
}

func (tc *TraceCacheImpl) Put(traceId string, spans []model.Span) error {
	set := tc.cache.Set(traceId, spans, int64(len(spans)))
	if !set {
		return ErrSetFailed
	}
	return nil
}
