package service

import (
	"context"
	"encoding/json"

	analyzerdto "github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/internal/server/config"
	"github.com/Subakiz/ai-investment-manager/pkg/common"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// SchedulerService kicks off the daily analysis pipeline on cron by
// publishing tasks to the Redis streams the analyzer consumes.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
	TriggerPipeline(ctx context.Context, symbols []string, triggeredBy string) error
}

type schedulerService struct {
	cfg         *config.Config
	log         *logger.Logger
	redisClient *redis.Client
	cron        *cron.Cron
}

// NewSchedulerService creates the pipeline scheduler.
func NewSchedulerService(cfg *config.Config, log *logger.Logger, redisClient *redis.Client) SchedulerService {
	return &schedulerService{
		cfg:         cfg,
		log:         log,
		redisClient: redisClient,
		cron:        cron.New(),
	}
}

// Start registers the cron entries and starts the scheduler. The market-data
// refresh runs first; the full pipeline follows after the news window.
func (s *schedulerService) Start(ctx context.Context) error {
	if !s.cfg.Scheduler.Enabled {
		s.log.Info("Pipeline scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.Scheduler.MarketDataCron, func() {
		if err := s.publish(ctx, common.RedisStreamQuantitative, analyzerdto.StreamTask{TriggeredBy: "cron:market-data"}); err != nil {
			s.log.Error("Failed to publish market data task", logger.ErrorField(err))
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(s.cfg.Scheduler.PipelineCron, func() {
		if err := s.TriggerPipeline(ctx, nil, "cron:pipeline"); err != nil {
			s.log.Error("Failed to publish pipeline task", logger.ErrorField(err))
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Pipeline scheduler started",
		logger.StringField("pipeline_cron", s.cfg.Scheduler.PipelineCron),
		logger.StringField("market_data_cron", s.cfg.Scheduler.MarketDataCron),
	)
	return nil
}

// Stop halts the cron scheduler and waits for running entries.
func (s *schedulerService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Pipeline scheduler stopped")
}

// TriggerPipeline enqueues a news-ingest task, the first stage of the chain.
func (s *schedulerService) TriggerPipeline(ctx context.Context, symbols []string, triggeredBy string) error {
	return s.publish(ctx, common.RedisStreamNewsIngest, analyzerdto.StreamTask{
		Symbols:     symbols,
		TriggeredBy: triggeredBy,
	})
}

func (s *schedulerService) publish(ctx context.Context, stream string, task analyzerdto.StreamTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	if err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{"payload": string(payload)},
		MaxLen: s.cfg.Scheduler.StreamMaxLen,
	}).Err(); err != nil {
		return err
	}
	s.log.Info("Task published", logger.StringField("stream", stream), logger.StringField("triggered_by", task.TriggeredBy))
	return nil
}
