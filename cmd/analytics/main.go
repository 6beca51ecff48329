package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-sales-orders/internal/analytics"
	"github.com/ariefcatur/go-sales-orders/internal/config"
	kafkax "github.com/ariefcatur/go-sales-orders/internal/kafka"
	"github.com/ariefcatur/go-sales-orders/internal/observability"
	"github.com/ariefcatur/go-sales-orders/internal/orders"
	"github.com/ariefcatur/go-sales-orders/internal/redisx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	service := cfg.ServiceName + "-analytics"

	log, err := observability.NewLogger(cfg.AppEnv, cfg.LogLevel, service)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	projector := &analytics.Projector{
		Cache:       &analytics.Aggregator{Redis: rdb, Logger: log},
		Redis:       rdb,
		ServiceName: service,
		Logger:      log,
	}

	// Consumer
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.AnalyticsGroup, orders.TopicOrderLifecycle, cfg.AnalyticsWorkers, log)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("analytics consumer started",
			zap.String("group", cfg.AnalyticsGroup),
			zap.String("topic", orders.TopicOrderLifecycle),
			zap.Int("workers", cfg.AnalyticsWorkers))
		if err := cons.Start(ctx, projector.HandleOrderEvent); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down consumer")
	cancel()
	<-done
}
