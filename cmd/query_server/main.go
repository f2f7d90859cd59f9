package main

import (
	"context"
	"flag"
	"net/http"

	"github.com/dgraph-io/ristretto"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tracelens/tracelens/internal/analysis/anomaly"
	"github.com/tracelens/tracelens/internal/analysis/timeline"
	"github.com/tracelens/tracelens/internal/config"
	"github.com/tracelens/tracelens/internal/db/elasticsearch/bootstrapper"
	"github.com/tracelens/tracelens/internal/db/elasticsearch/client"
	"github.com/tracelens/tracelens/internal/query_server/router"
	traceService "github.com/tracelens/tracelens/internal/query_server/service/trace"
	"github.com/tracelens/tracelens/internal/trace/cache"
	"go.uber.org/zap"
)

// @title TraceLens API
// @version 1.0
// @description Execution graph analysis for LLM and agent traces.

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
	})
	if err != nil {
		logger.Fatal("Failed to create elasticsearch client", zap.Error(err))
	}

	bs := bootstrapper.NewBootstrapper(es, logger)
	err = bs.BootstrapElasticsearch()
	if err != nil {
		logger.Fatal("Failed to bootstrap elasticsearch", zap.Error(err))
	}

	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.Cache.NumCounters,
		MaxCost:     cfg.Cache.MaxCost,
		BufferItems: cfg.Cache.BufferItems,
	})
	if err != nil {
		logger.Fatal("Failed to create trace cache", zap.Error(err))
	}

	sc := client.NewStoreClientImpl(es, client.Wait)
	traceCache := cache.NewTraceCacheImpl(ristrettoCache)
	timelineAnalyzer := timeline.NewAnalyzer(logger)
	anomalyDetector := anomaly.NewDetector(logger)
	traceQueryService := traceService.NewTraceQueryServiceImpl(
		sc,
		traceCache,
		timelineAnalyzer,
		cfg.Baseline.SensitivitySigma,
		logger,
	)

	registry := prometheus.NewRegistry()
	r := router.CreateRouter(
		context.Background(),
		timelineAnalyzer,
		anomalyDetector,
		traceQueryService,
		registry,
		logger,
	)
	logger.Info("Starting query server", zap.String("address", cfg.Server.Address()))
	if err := http.ListenAndServe(cfg.Server.Address(), r); err != nil {
		logger.Fatal("Failed to serve: %v", zap.Error(err))
	}
}
