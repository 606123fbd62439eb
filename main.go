package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weddingshop/cache"
	"weddingshop/configs"
	"weddingshop/events"
	"weddingshop/middlewares"
	"weddingshop/routes"
	"weddingshop/ws"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const serviceName = "wedding-api"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := configs.LoadConfig()

	// DB
	if err := configs.ConnectionDB(cfg); err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	db := configs.DB()

	// migrate + seed
	if err := configs.SetupDatabase(db); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}
	if err := configs.SeedAdmin(db, cfg); err != nil {
		logger.Fatal("seed admin failed", zap.Error(err))
	}
	if err := configs.SeedCatalog(db); err != nil {
		logger.Fatal("seed catalog failed", zap.Error(err))
	}

	// statistics cache
	var store cache.Store
	if cfg.RedisAddr != "" {
		rdb, err := cache.InitRedis(cfg.RedisAddr, cfg.RedisPassword, logger)
		if err != nil {
			logger.Warn("redis unavailable, statistics cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			store = cache.NewRedisStore(rdb, "wedding:")
		}
	}

	// tracing
	shutdownTracing, err := middlewares.InitTracing(serviceName, cfg.JaegerEndpoint)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer shutdownTracing()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// events: websocket hub always, Kafka when brokers are configured
	hub := ws.NewNotificationHub()
	go hub.Run(ctx)
	publishers := events.Multi{hub}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers, logger)
		if err != nil {
			logger.Warn("kafka unavailable, events stay in-process", zap.Error(err))
		} else {
			defer kp.Close()
			publishers = append(publishers, kp)
		}
	}

	// HTTP
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middlewares.LoggerMiddleware(logger))
	r.Use(middlewares.MetricsMiddleware())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.MaxMultipartMemory = 16 << 20

	routes.RegisterRoutes(r, routes.Deps{
		DB:     db,
		Config: cfg,
		Cache:  store,
		Events: publishers,
		Hub:    hub,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()
	logger.Info("server running", zap.String("addr", srv.Addr))

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}
