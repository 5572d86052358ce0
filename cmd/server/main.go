package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imirazimi/shortlink/config"
	appmodel "github.com/imirazimi/shortlink/internal/app/model"
	apprepository "github.com/imirazimi/shortlink/internal/app/repository"
	appserver "github.com/imirazimi/shortlink/internal/app/server"
	appservice "github.com/imirazimi/shortlink/internal/app/service"
	"github.com/imirazimi/shortlink/internal/codegen"
	"github.com/imirazimi/shortlink/internal/geo"
	"github.com/imirazimi/shortlink/internal/infra/logger"
	infraNATS "github.com/imirazimi/shortlink/internal/infra/nats"
	infraPostgres "github.com/imirazimi/shortlink/internal/infra/postgres"
	infraPrometheus "github.com/imirazimi/shortlink/internal/infra/prometheus"
	infraRedis "github.com/imirazimi/shortlink/internal/infra/redis"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	isDev := os.Getenv("APP_ENV") != "production"
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Configuration loaded successfully",
		zap.String("base_url", cfg.App.BaseURL),
		zap.Int("code_length", cfg.App.CodeLength),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("postgres_db", cfg.Postgres.Database),
		zap.String("redis_host", cfg.Redis.Host),
		zap.String("nats_host", cfg.NATS.Host),
	)

	gormDB, err := infraPostgres.NewGorm(cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to open GORM connection", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := infraPostgres.AutoMigrate(ctx, gormDB, &appmodel.Link{}, &appmodel.ClickEvent{}); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()
	log.Info("Connected to Postgres successfully")

	redisClient, err := infraRedis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("Connected to Redis successfully")

	natsConn, js, err := infraNATS.Connect(cfg.NATS)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsConn.Drain()
	log.Info("Connected to NATS successfully", zap.Bool("jetstream_ready", js != nil))

	geoReader, err := geo.Open(cfg.App.GeoIPPath)
	if err != nil {
		log.Fatal("Failed to open GeoIP database", zap.Error(err))
	}
	defer geoReader.Close()

	if !isDev {
		promServer := infraPrometheus.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server", zap.Int("port", cfg.Prometheus.Port))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	} else {
		log.Info("Skipping Prometheus metrics server in development mode")
	}

	linkRepo := apprepository.NewLinkRepository(gormDB)
	clickRepo := apprepository.NewClickEventRepository(gormDB)
	statsRepo := apprepository.NewStatsRepository(pool)

	generator := codegen.NewRandomGenerator(cfg.App.CodeLength)
	publisher := appservice.NewClickPublisher(js)
	linkService := appservice.NewLinkService(linkRepo, clickRepo, generator, publisher, log)

	consumer := appservice.NewClickConsumer(js, log, clickRepo, geoReader)
	if err := consumer.Start(); err != nil {
		log.Fatal("Failed to start click consumer", zap.Error(err))
	}

	sweepInterval, err := time.ParseDuration(cfg.App.SweepInterval)
	if err != nil {
		log.Warn("Invalid sweep interval, using default", zap.String("value", cfg.App.SweepInterval))
		sweepInterval = 0
	}
	sweeper := appservice.NewExpirySweeper(log, linkRepo, sweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	srv := appserver.New(appserver.Dependencies{
		Logger:      log,
		Redis:       redisClient,
		LinkService: linkService,
		Stats:       statsRepo,
		BaseURL:     cfg.App.BaseURL,
	})

	go func() {
		if err := srv.Listen(cfg.App.Addr()); err != nil {
			log.Fatal("Fiber server exited", zap.Error(err))
		}
	}()
	log.Info("Server listening", zap.String("addr", cfg.App.Addr()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down server cleanly", zap.Error(err))
	}
}
