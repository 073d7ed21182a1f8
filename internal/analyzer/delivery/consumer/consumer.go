package consumer

import (
	"context"
	"sync"
	"time"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/config"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/service"
	"github.com/Subakiz/ai-investment-manager/pkg/common"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"
	"github.com/Subakiz/ai-investment-manager/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// RedisConsumer runs the pipeline stage handlers against their streams.
type RedisConsumer struct {
	cfg         *config.Config
	redisClient *redis.Client
	pipeline    service.PipelineService
	logger      *logger.Logger
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(
	cfg *config.Config,
	redisClient *redis.Client,
	pipeline service.PipelineService,
	log *logger.Logger,
) *RedisConsumer {
	return &RedisConsumer{
		cfg:         cfg,
		redisClient: redisClient,
		pipeline:    pipeline,
		logger:      log,
		stopChan:    make(chan struct{}),
	}
}

// Start begins one polling loop per analysis stream.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	c.RegisterStreamHandler(ctx, c.pipeline.ProcessNewsTask, common.RedisStreamNewsIngest, c.cfg.Analyzer.RedisStreamTaskTimeout)
	c.RegisterStreamHandler(ctx, c.pipeline.ProcessSentimentTask, common.RedisStreamSentiment, c.cfg.Analyzer.RedisStreamTaskTimeout)
	c.RegisterStreamHandler(ctx, c.pipeline.ProcessQuantitativeTask, common.RedisStreamQuantitative, c.cfg.Analyzer.RedisStreamTaskTimeout)
	c.RegisterStreamHandler(ctx, c.pipeline.ProcessRecommendationTask, common.RedisStreamRecommendation, c.cfg.Analyzer.RedisStreamTaskTimeout)
}

// RegisterStreamHandler polls fn in a loop until stopped. Each invocation gets
// its own timeout so one stuck stage cannot wedge the loop forever.
func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string, timeout time.Duration) {
	c.logger.Info("Registering stream handler", logger.Field("stream", streamName))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation", logger.Field("stream", streamName))
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping", logger.Field("stream", streamName))
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
