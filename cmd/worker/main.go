package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kingdomOfIT/momentum/internal/config"
	amqpdelivery "github.com/kingdomOfIT/momentum/internal/delivery/amqp"
	"github.com/kingdomOfIT/momentum/internal/domain"
	"github.com/kingdomOfIT/momentum/internal/model"
	"github.com/kingdomOfIT/momentum/internal/repository/postgres"
	redisrepo "github.com/kingdomOfIT/momentum/internal/repository/redis"
	"github.com/kingdomOfIT/momentum/internal/summarizer"
	"github.com/kingdomOfIT/momentum/internal/worker"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting Momentum Summarization Worker")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to PostgreSQL
	dbPool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer dbPool.Close()
	if err := dbPool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping PostgreSQL", zap.Error(err))
	}
	logger.Info("Connected to PostgreSQL")

	// Connect to Redis
	redisOpts, err := goredis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("Invalid Redis URL", zap.Error(err))
	}
	redisClient := goredis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	// Initialize repositories
	docStore := postgres.NewPostgresDocumentStore(dbPool)
	backend := redisrepo.NewRedisTaskBackend(redisClient)
	idempotencyStore := redisrepo.NewRedisIdempotencyStore(redisClient)

	// Initialize the summarization pipeline
	modelClient := model.NewClient(cfg.Model.URL, cfg.Model.Token, cfg.Model.Timeout, logger)
	chunked := summarizer.NewChunked(modelClient, logger)

	// Initialize use case
	processUC := worker.NewProcessTaskUsecase(docStore, backend, idempotencyStore, chunked, cfg.Summary.ResultTTL, logger)

	// Create buffered task channel
	tasksChan := make(chan *domain.TaskMessage, cfg.Worker.PoolSize*2)

	// Initialize AMQP consumer
	consumer, err := amqpdelivery.NewConsumer(cfg.RabbitMQ.URL, tasksChan, logger)
	if err != nil {
		logger.Fatal("Failed to initialize AMQP consumer", zap.Error(err))
	}
	defer consumer.Close()
	logger.Info("Connected to RabbitMQ")

	// Start worker pool
	pool := worker.NewPool(cfg.Worker.PoolSize, tasksChan, processUC, logger)
	pool.Start(ctx)

	// Start AMQP consumer in a goroutine
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error("AMQP consumer error", zap.Error(err))
			cancel()
		}
	}()

	// Start Prometheus metrics server
	go func() {
		metricsAddr := fmt.Sprintf(":%d", cfg.Worker.MetricsPort)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("Metrics server listening", zap.String("addr", metricsAddr))
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			logger.Error("Metrics server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()

	// Wait for workers to finish in-flight tasks
	pool.Stop()

	logger.Info("Worker stopped")
}
