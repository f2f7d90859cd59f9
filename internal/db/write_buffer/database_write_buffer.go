package write_buffer

import (
	"context"
	"fmt"
	"sync"
	"time"

	storeClient "github.com/tracelens/tracelens/internal/db/elasticsearch/client"
	"go.uber.org/zap"
)

const WriteQueueSize = 30
const flushTimeOut = 10 * time.Second

type DatabaseWriteBuffer[ValueType any] interface {
	WriteToBuffer(value []ValueType)
}

type DatabaseWriteBufferImpl[ValueType interface{}] struct {
	writeQueue  []ValueType
	sc          storeClient.StoreClient
	esIndexName string
	logger      *zap.Logger
	mu          sync.Mutex
}

func NewDatabaseWriteBufferImpl[ValueType interface{}](
	sc storeClient.StoreClient,
	esIndexName string,
	logger *zap.Logger,
) *DatabaseWriteBufferImpl[ValueType] {
	return &DatabaseWriteBufferImpl[ValueType]{
		writeQueue:  []ValueType{},
		sc:          sc,
		esIndexName: esIndexName,
		logger:      logger,
	}
}

func (wb *DatabaseWriteBufferImpl[ValueType]) WriteToBuffer(
	value []ValueType,
) {
	wb.mu.Lock()
	wb.writeQueue = append(wb.writeQueue, value...)
	flushNeeded := len(wb.writeQueue) > WriteQueueSize
	wb.mu.Unlock()
	if flushNeeded {
		go func() {
			err := wb.flushToElasticsearch()
			if err != nil {
				wb.logger.Error("Failed to flush to Elasticsearch", zap.Error(err))
			}
		}()
	}
}

func (wb *DatabaseWriteBufferImpl[ValueType]) flushToElasticsearch() error {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	bulkCtx, cancel := context.WithTimeout(context.Background(), flushTimeOut)
	defer cancel()
	metaMap, dataMap, err := storeClient.ToMetaAndDataMap(wb.writeQueue)
	if err != nil {
		return fmt.Errorf("error converting write queue to meta and data map: %w", err)
	}
	if len(metaMap) == 0 {
		wb.writeQueue = []ValueType{}
		return nil
	}
	err = wb.sc.BulkIndex(
		bulkCtx,
		metaMap,
		dataMap,
		wb.esIndexName,
	)
	wb.writeQueue = []ValueType{}
	if err != nil {
		return fmt.Errorf("error bulk indexing to Elasticsearch: %w", err)
	}
	return nil
}
