package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/yassirh/stocktake-service/config"
	"github.com/yassirh/stocktake-service/internal/server"
	"github.com/yassirh/stocktake-service/pkg/broker"
	"github.com/yassirh/stocktake-service/pkg/cache"
	"github.com/yassirh/stocktake-service/pkg/logger"
	"github.com/yassirh/stocktake-service/pkg/postgres"

	catalogH "github.com/yassirh/stocktake-service/internal/catalog/handler"
	catalogRepoPkg "github.com/yassirh/stocktake-service/internal/catalog/repository"
	catalogUCPkg "github.com/yassirh/stocktake-service/internal/catalog/usecase"

	sessionH "github.com/yassirh/stocktake-service/internal/session/handler"
	sessionRepoPkg "github.com/yassirh/stocktake-service/internal/session/repository"
	sessionUCPkg "github.com/yassirh/stocktake-service/internal/session/usecase"

	"github.com/yassirh/stocktake-service/internal/scan"
	scanH "github.com/yassirh/stocktake-service/internal/scan/handler"
	scanRepoPkg "github.com/yassirh/stocktake-service/internal/scan/repository"
	scanUCPkg "github.com/yassirh/stocktake-service/internal/scan/usecase"

	reportH "github.com/yassirh/stocktake-service/internal/report/handler"
	reportUCPkg "github.com/yassirh/stocktake-service/internal/report/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis (catalog cache; the service runs without it)
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Redis (catalog lookups will hit the database)", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5. Initialize Kafka Producer (accepted-scan event stream)
	var publisher scan.EventPublisher
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer producer.Close()
		publisher = producer
		appLogger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// 6. Initialize Repositories
	catalogRepo := catalogRepoPkg.NewPGRepository(db)
	sessionRepo := sessionRepoPkg.NewPGRepository(db)
	scanRepo := scanRepoPkg.NewPGRepository(db)

	// 7. Initialize UseCases
	catalogUC := catalogUCPkg.NewCatalogUseCase(catalogRepo, redisClient, appLogger)
	sessionUC := sessionUCPkg.NewSessionUseCase(sessionRepo, appLogger)
	scanUC := scanUCPkg.NewScanUseCase(scanRepo, sessionRepo, catalogUC, publisher, appLogger)
	reportUC := reportUCPkg.NewReportUseCase(scanRepo, sessionRepo, catalogUC, appLogger)

	// 8. Initialize Handlers + Router
	router := server.NewRouter(server.Handlers{
		Catalog: catalogH.NewCatalogHandler(catalogUC, appLogger),
		Session: sessionH.NewSessionHandler(sessionUC, appLogger),
		Scan:    scanH.NewScanHandler(scanUC, appLogger),
		Report:  reportH.NewReportHandler(reportUC, appLogger),
	}, appLogger)

	// 9. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	httpServer := &http.Server{
		Addr:    port,
		Handler: router,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
