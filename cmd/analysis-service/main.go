package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/config"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/delivery/consumer"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/repository"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/service"
	"github.com/Subakiz/ai-investment-manager/pkg/common"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"
	"github.com/Subakiz/ai-investment-manager/pkg/postgres"
	"github.com/Subakiz/ai-investment-manager/pkg/redis"
	"github.com/Subakiz/ai-investment-manager/pkg/telegram"

	"google.golang.org/genai"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the analysis service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Analysis Service", zap.String("name", cfg.App.Name))

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
		appLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// MKSTREAM creates the stream if it doesn't exist
	streams := []string{
		common.RedisStreamNewsIngest,
		common.RedisStreamSentiment,
		common.RedisStreamQuantitative,
		common.RedisStreamRecommendation,
	}
	for _, stream := range streams {
		if err := redisClient.XGroupCreateMkStream(context.Background(), stream, common.RedisStreamGroup, "0").Err(); err != nil {
			if err.Error() != "BUSYGROUP Consumer Group name already exists" {
				appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
			}
		}
	}

	// Initialize repositories
	stocksRepo := repository.NewStocksRepository(db.DB)
	priceRepo := repository.NewStockPriceRepository(db.DB)
	finRepo := repository.NewFinancialStatementRepository(db.DB)
	scoreRepo := repository.NewQuantitativeScoreRepository(db.DB)
	articleRepo := repository.NewNewsArticleRepository(db.DB)
	sentimentRepo := repository.NewSentimentRepository(db.DB)
	recRepo := repository.NewRecommendationRepository(db.DB)

	yahooFinanceRepo, err := repository.NewYahooFinanceRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Yahoo Finance repository", zap.Error(err))
	}

	// Initialize AI provider
	var aiRepo repository.AIRepository
	switch cfg.AI.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", zap.Error(err))
		}
		repo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI repository", zap.Error(err))
		}
		aiRepo = repo
	default:
		appLogger.Fatal("Invalid AI provider specified in config", zap.String("provider", cfg.AI.Provider))
	}

	var notifier telegram.Notifier = telegram.NoopNotifier{}
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", zap.Error(err))
		}
	}

	// Initialize services
	marketDataSvc := service.NewMarketDataService(cfg, appLogger, yahooFinanceRepo, stocksRepo, priceRepo)
	newsScraperSvc := service.NewNewsScraperService(cfg, appLogger, stocksRepo, articleRepo)
	qualitativeSvc := service.NewQualitativeAnalyzerService(cfg, appLogger, aiRepo, articleRepo, sentimentRepo, stocksRepo)
	quantitativeSvc := service.NewQuantitativeAnalyzerService(cfg, appLogger, stocksRepo, priceRepo, finRepo, scoreRepo)
	recommendationSvc := service.NewRecommendationService(cfg, appLogger, stocksRepo, scoreRepo, qualitativeSvc, recRepo)
	pipelineSvc := service.NewPipelineService(cfg, appLogger, redisClient.Client,
		newsScraperSvc, qualitativeSvc, marketDataSvc, quantitativeSvc, recommendationSvc, recRepo, notifier)

	// Seed the universe so a fresh database can serve its first run.
	if err := marketDataSvc.SeedUniverse(ctx); err != nil {
		appLogger.Error("Failed to seed stock universe", logger.ErrorField(err))
	}

	redisConsumer := consumer.NewRedisConsumer(cfg, redisClient.Client, pipelineSvc, appLogger)
	redisConsumer.Start(ctx)

	appLogger.Info("Analysis service started. Waiting for tasks...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down analysis service...")
	cancel()
	redisConsumer.Stop()
	appLogger.Info("Analysis service stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "analysis-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-analyzer.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing analysis-service CLI: %s\n", err)
		os.Exit(1)
	}
}
