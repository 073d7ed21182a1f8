package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/config"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/repository"
	"github.com/Subakiz/ai-investment-manager/pkg/common"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"
	"github.com/Subakiz/ai-investment-manager/pkg/telegram"

	goRedis "github.com/redis/go-redis/v9"
)

const digestTopN = 5

// PipelineService consumes the analysis stream tasks and chains the daily
// stages: news ingest, sentiment, quantitative scoring, recommendations.
type PipelineService interface {
	ProcessNewsTask(ctx context.Context)
	ProcessSentimentTask(ctx context.Context)
	ProcessQuantitativeTask(ctx context.Context)
	ProcessRecommendationTask(ctx context.Context)
	PublishTask(ctx context.Context, stream string, task dto.StreamTask) error
}

type pipelineService struct {
	cfg            *config.Config
	log            *logger.Logger
	redisClient    *goRedis.Client
	newsScraper    NewsScraperService
	qualitative    QualitativeAnalyzerService
	marketData     MarketDataService
	quantitative   QuantitativeAnalyzerService
	recommendation RecommendationService
	recRepo        repository.RecommendationRepository
	notifier       telegram.Notifier
}

// NewPipelineService creates the stream-task processor.
func NewPipelineService(
	cfg *config.Config,
	log *logger.Logger,
	redisClient *goRedis.Client,
	newsScraper NewsScraperService,
	qualitative QualitativeAnalyzerService,
	marketData MarketDataService,
	quantitative QuantitativeAnalyzerService,
	recommendation RecommendationService,
	recRepo repository.RecommendationRepository,
	notifier telegram.Notifier,
) PipelineService {
	return &pipelineService{
		cfg:            cfg,
		log:            log,
		redisClient:    redisClient,
		newsScraper:    newsScraper,
		qualitative:    qualitative,
		marketData:     marketData,
		quantitative:   quantitative,
		recommendation: recommendation,
		recRepo:        recRepo,
		notifier:       notifier,
	}
}

// PublishTask appends one task to a stream as a JSON payload field.
func (s *pipelineService) PublishTask(ctx context.Context, stream string, task dto.StreamTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return s.redisClient.XAdd(ctx, &goRedis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{"payload": string(payload)},
	}).Err()
}

// readTask dequeues a single task from the given stream. Returns nil when
// there is nothing to process.
func (s *pipelineService) readTask(ctx context.Context, stream string) *dto.StreamTask {
	streams, err := s.redisClient.XReadGroup(ctx, &goRedis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{stream, ">"},
		Count:    1,
		Block:    2 * time.Second,
		NoAck:    true,
	}).Result()
	if err != nil {
		if err == context.Canceled || err == context.DeadlineExceeded || err == goRedis.Nil {
			return nil
		}
		s.log.Error("Failed to read from stream", logger.StringField("stream", stream), logger.ErrorField(err))
		return nil
	}
	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil
	}

	message := streams[0].Messages[0]
	payload, ok := message.Values["payload"].(string)
	if !ok {
		s.log.Error("field 'payload' not found or not a string in stream message",
			logger.StringField("stream", stream),
			logger.Field("message_id", message.ID),
		)
		return nil
	}

	var task dto.StreamTask
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		s.log.Error("Failed to unmarshal stream task", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return nil
	}
	return &task
}

// ProcessNewsTask ingests fresh articles, then hands off to sentiment.
func (s *pipelineService) ProcessNewsTask(ctx context.Context) {
	task := s.readTask(ctx, common.RedisStreamNewsIngest)
	if task == nil {
		return
	}

	s.log.Info("Processing news ingest task", logger.StringField("triggered_by", task.TriggeredBy))
	if _, err := s.newsScraper.Run(ctx); err != nil {
		s.log.Error("News ingest stage failed", logger.ErrorField(err))
		return
	}

	if err := s.PublishTask(ctx, common.RedisStreamSentiment, *task); err != nil {
		s.log.Error("Failed to publish sentiment task", logger.ErrorField(err))
	}
}

// ProcessSentimentTask scores the article backlog, then hands off to the
// quantitative stage.
func (s *pipelineService) ProcessSentimentTask(ctx context.Context) {
	task := s.readTask(ctx, common.RedisStreamSentiment)
	if task == nil {
		return
	}

	s.log.Info("Processing sentiment task", logger.StringField("triggered_by", task.TriggeredBy))
	if _, err := s.qualitative.Run(ctx); err != nil {
		s.log.Error("Sentiment stage failed", logger.ErrorField(err))
		return
	}

	if err := s.PublishTask(ctx, common.RedisStreamQuantitative, *task); err != nil {
		s.log.Error("Failed to publish quantitative task", logger.ErrorField(err))
	}
}

// ProcessQuantitativeTask refreshes prices and recomputes scores, then hands
// off to the recommendation stage.
func (s *pipelineService) ProcessQuantitativeTask(ctx context.Context) {
	task := s.readTask(ctx, common.RedisStreamQuantitative)
	if task == nil {
		return
	}

	s.log.Info("Processing quantitative task", logger.StringField("triggered_by", task.TriggeredBy))
	if _, err := s.marketData.CollectDailyPrices(ctx, task.Symbols); err != nil {
		s.log.Error("Market data stage failed", logger.ErrorField(err))
		return
	}
	if _, err := s.quantitative.Run(ctx, task.Symbols); err != nil {
		s.log.Error("Quantitative stage failed", logger.ErrorField(err))
		return
	}

	if err := s.PublishTask(ctx, common.RedisStreamRecommendation, *task); err != nil {
		s.log.Error("Failed to publish recommendation task", logger.ErrorField(err))
	}
}

// ProcessRecommendationTask produces the day's recommendations and sends the
// top-BUY digest.
func (s *pipelineService) ProcessRecommendationTask(ctx context.Context) {
	task := s.readTask(ctx, common.RedisStreamRecommendation)
	if task == nil {
		return
	}

	s.log.Info("Processing recommendation task", logger.StringField("triggered_by", task.TriggeredBy))
	if _, err := s.recommendation.Run(ctx, task.Symbols); err != nil {
		s.log.Error("Recommendation stage failed", logger.ErrorField(err))
		return
	}

	s.sendDigest(ctx)
}

func (s *pipelineService) sendDigest(ctx context.Context) {
	ranked, err := s.recRepo.GetLatestRanked(ctx, digestTopN)
	if err != nil {
		s.log.Error("Failed to load ranked recommendations for digest", logger.ErrorField(err))
		return
	}

	entries := make([]telegram.DigestEntry, 0, len(ranked))
	for _, r := range ranked {
		entries = append(entries, telegram.DigestEntry{
			Symbol:        r.Stock.Symbol,
			CompanyName:   r.Stock.CompanyName,
			Action:        r.Recommendation.Recommendation,
			CombinedScore: r.Recommendation.CombinedScore,
			Confidence:    r.Recommendation.ConfidenceLevel,
		})
	}

	message := telegram.FormatDigest(entries)
	if message == "" {
		s.log.Info("No BUY recommendations today, skipping digest")
		return
	}
	if err := s.notifier.SendMessage(message); err != nil {
		s.log.Error("Failed to send Telegram digest", logger.ErrorField(err))
		return
	}
	s.log.Info("Sent daily digest", logger.IntField("recommendations", len(ranked)))
}
