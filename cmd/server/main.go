package main

import (
	"context"
	"errors"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomservice/internal/config"
	"roomservice/internal/controllers/http"
	"roomservice/internal/infra"
	"roomservice/internal/infra/database"
	"roomservice/internal/infra/kafka"
	"roomservice/internal/infra/rabbitmq"
	"roomservice/internal/logger"
	"roomservice/internal/repository"
	"roomservice/internal/repository/gormrepo"
	"roomservice/internal/repository/memory"
	"roomservice/internal/seed"
	"roomservice/internal/services"
	"roomservice/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	orders, items, err := openRepositories(cfg, zl)
	if err != nil {
		return err
	}

	publisher, err := newPublisher(cfg, zl)
	if err != nil {
		return err
	}
	defer publisher.Close()

	s := services.NewOrderService(orders, items, publisher, zl)
	catalog := services.NewCatalogService(items)

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			DB:           0,
			PoolSize:     50,
			MinIdleConns: 5,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		defer redisClient.Close()
		s.SetRedisClient(redisClient)
	}

	if cfg.SeedCatalog {
		if _, err := seed.Catalog(ctx, items, zl); err != nil {
			return err
		}
	}
	if cfg.SeedDemoOrders {
		if err := seed.DemoOrders(ctx, s, items, zl); err != nil {
			return err
		}
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), http.RequestLogger(zl))
	http.NewHandler(s, catalog, zl, cfg.RequestTimeout).RegisterRoutes(r)

	srv := &nethttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("starting room service", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := s.WarmupItemCache(gctx); err != nil {
			zl.Warn("failed to warm up item cache", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zl.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openRepositories(cfg config.Config, zl *zap.Logger) (repository.OrderRepository, repository.ItemRepository, error) {
	if cfg.DBDriver == config.DriverMemory {
		zl.Warn("using in-memory store, data is lost on restart")
		store := memory.New()
		return store.Orders(), store.Items(), nil
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return gormrepo.NewOrderRepository(db), gormrepo.NewItemRepository(db), nil
}

func newPublisher(cfg config.Config, zl *zap.Logger) (infra.EventPublisher, error) {
	switch cfg.EventsDriver {
	case config.EventsRabbitMQ:
		return rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, zl)
	case config.EventsKafka:
		return kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, zl), nil
	default:
		return infra.NopPublisher{Log: zl}, nil
	}
}
