package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyzercfg "github.com/Subakiz/ai-investment-manager/internal/analyzer/config"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/repository"
	analyzersvc "github.com/Subakiz/ai-investment-manager/internal/analyzer/service"
	"github.com/Subakiz/ai-investment-manager/internal/server/config"
	delivery "github.com/Subakiz/ai-investment-manager/internal/server/delivery/http"
	"github.com/Subakiz/ai-investment-manager/internal/server/service"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"
	"github.com/Subakiz/ai-investment-manager/pkg/postgres"
	"github.com/Subakiz/ai-investment-manager/pkg/redis"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting API Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	stocksRepo := repository.NewStocksRepository(db.DB)
	priceRepo := repository.NewStockPriceRepository(db.DB)
	scoreRepo := repository.NewQuantitativeScoreRepository(db.DB)
	finRepo := repository.NewFinancialStatementRepository(db.DB)
	sentimentRepo := repository.NewSentimentRepository(db.DB)
	recRepo := repository.NewRecommendationRepository(db.DB)

	// The risk engine is shared with the analysis service and only reads
	// the analysis section of the configuration.
	riskAnalyzer := analyzersvc.NewRiskAnalyzerService(
		&analyzercfg.Config{Analysis: cfg.Analysis}, appLogger, stocksRepo, priceRepo)

	// Initialize services
	recommendationSvc := service.NewRecommendationService(cfg, appLogger, stocksRepo, recRepo)
	stockSvc := service.NewStockService(cfg, appLogger, stocksRepo, priceRepo, scoreRepo, finRepo)
	sentimentSvc := service.NewSentimentService(cfg, appLogger, stocksRepo, sentimentRepo)
	riskSvc := service.NewRiskService(cfg, appLogger, riskAnalyzer)
	schedulerSvc := service.NewSchedulerService(cfg, appLogger, redisClient.Client)

	// Start pipeline scheduler
	if err := schedulerSvc.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start pipeline scheduler", logger.ErrorField(err))
	}
	defer schedulerSvc.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	recommendationHandler := delivery.NewRecommendationHandler(recommendationSvc, appLogger)
	recommendationsGroup := apiV1.Group("/recommendations")
	recommendationHandler.RegisterRoutes(recommendationsGroup)
	marketGroup := apiV1.Group("/market")
	recommendationHandler.RegisterMarketRoutes(marketGroup)

	stockHandler := delivery.NewStockHandler(stockSvc, appLogger)
	stocksGroup := apiV1.Group("/stocks")
	stockHandler.RegisterRoutes(stocksGroup)

	sentimentHandler := delivery.NewSentimentHandler(sentimentSvc, appLogger)
	sentimentGroup := apiV1.Group("/sentiment")
	sentimentHandler.RegisterRoutes(sentimentGroup)

	riskHandler := delivery.NewRiskHandler(riskSvc, appLogger)
	riskGroup := apiV1.Group("/risk")
	riskHandler.RegisterRoutes(riskGroup)

	analysisHandler := delivery.NewAnalysisHandler(schedulerSvc, appLogger)
	analysisGroup := apiV1.Group("/analysis")
	analysisHandler.RegisterRoutes(analysisGroup)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
