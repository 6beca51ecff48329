package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-sales-orders/internal/analytics"
	"github.com/ariefcatur/go-sales-orders/internal/auth"
	"github.com/ariefcatur/go-sales-orders/internal/catalog"
	"github.com/ariefcatur/go-sales-orders/internal/config"
	"github.com/ariefcatur/go-sales-orders/internal/httpx"
	kafkax "github.com/ariefcatur/go-sales-orders/internal/kafka"
	"github.com/ariefcatur/go-sales-orders/internal/observability"
	"github.com/ariefcatur/go-sales-orders/internal/orders"
	"github.com/ariefcatur/go-sales-orders/internal/party"
	"github.com/ariefcatur/go-sales-orders/internal/postgres"
	"github.com/ariefcatur/go-sales-orders/internal/redisx"
	"github.com/ariefcatur/go-sales-orders/internal/stock"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type stores struct {
	catalog catalog.Store
	parties party.Store
	orders  orders.Store
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := observability.NewLogger(cfg.AppEnv, cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OtelEndpoint, cfg.ServiceName)
	if err != nil {
		log.Fatal("tracing setup", zap.Error(err))
	}

	var (
		st     stores
		events orders.Publisher = orders.NopPublisher{}
		rdb    *redis.Client
		prod   *kafkax.Producer
	)
	switch cfg.StoreDriver {
	case "memory":
		log.Warn("using in-memory stores; data is lost on exit")
		st = stores{catalog.NewMemStore(), party.NewMemStore(), orders.NewMemStore()}
	default:
		// DB
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal("db connect", zap.Error(err))
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal("db migrate", zap.Error(err))
		}
		st = stores{&catalog.Repo{DB: db}, &party.Repo{DB: db}, &orders.Repo{DB: db}}

		// Redis
		rdb = redisx.New(cfg.RedisAddr)
		defer rdb.Close()

		// Kafka producer
		prod = kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderLifecycle, 1024, log)
		prod.Start(ctx)
		events = &orders.KafkaPublisher{Producer: prod, Service: cfg.ServiceName}
	}

	engine := stock.NewEngine(st.catalog, log)
	engine.Atomic = cfg.StockAtomic
	engine.Compensate = cfg.StockCompensate

	clients := party.NewService(st.parties, log)
	api := &httpx.API{
		Catalog: catalog.NewService(st.catalog, log),
		Parties: clients,
		Orders:  orders.NewManager(st.orders, clients, engine, events, log),
		Analytics: &analytics.Aggregator{
			Orders:  st.orders,
			Parties: st.parties,
			Redis:   rdb,
			TTL:     cfg.AnalyticsCacheTTL,
			Logger:  log,
		},
		Auth:   auth.NewProvider(st.parties, cfg.JWTSecret, cfg.JWTTTL),
		Logger: log,
	}

	// HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(httpx.NewRouter(api), cfg.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// graceful shutdown
	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr),
			zap.String("store", cfg.StoreDriver), zap.Bool("atomic_stock", engine.Atomic))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close()
		prod.WaitClosed()
	}
	cancel()
	if err := shutdownTracing(ctx2); err != nil {
		log.Warn("tracing shutdown", zap.Error(err))
	}
}
