package main

import (
	"flag"
	"net"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/tracelens/tracelens/internal/config"
	"github.com/tracelens/tracelens/internal/db/elasticsearch/bootstrapper"
	"github.com/tracelens/tracelens/internal/db/elasticsearch/client"
	"github.com/tracelens/tracelens/internal/db/write_buffer"
	traceServer "github.com/tracelens/tracelens/internal/otel_server/trace/server"
	traceModel "github.com/tracelens/tracelens/internal/trace/model"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	_ "google.golang.org/grpc/encoding/gzip"
)

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

	listener, err := net.Listen("tcp", cfg.Collector.ListenAddress)
	if err != nil {
		logger.Fatal("Failed to listen: %v", zap.Error(err))
	}

	sc := client.NewStoreClientImpl(es, client.Async)
	traceDBBuffer := write_buffer.NewDatabaseWriteBufferImpl[traceModel.Span](
		sc,
		bootstrapper.SpanIndexName,
		logger,
	)

	srv := grpc.NewServer()
	traceServiceServer := traceServer.NewTraceServiceServerImpl(
		logger,
		traceDBBuffer,
	)

	protoTrace.RegisterTraceServiceServer(srv, traceServiceServer)
	logger.Info("gRPC service started, listening for OpenTelemetry traces...",
		zap.String("address", cfg.Collector.ListenAddress))

	if err := srv.Serve(listener); err != nil {
		logger.Fatal("Failed to serve: %v", zap.Error(err))
	}
}
