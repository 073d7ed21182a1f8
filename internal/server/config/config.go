package config

import (
	"time"

	analyzercfg "github.com/Subakiz/ai-investment-manager/internal/analyzer/config"
	"github.com/Subakiz/ai-investment-manager/pkg/config"
)

// Cache holds the in-memory response cache settings.
type Cache struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// Scheduler holds the cron expressions that trigger the daily pipeline.
type Scheduler struct {
	Enabled        bool   `mapstructure:"enabled"`
	PipelineCron   string `mapstructure:"pipeline_cron"`
	MarketDataCron string `mapstructure:"market_data_cron"`
	StreamMaxLen   int64  `mapstructure:"stream_max_len"`
}

// Config holds the full configuration for the API service.
type Config struct {
	App       config.App           `mapstructure:"app"`
	Logger    config.Logger        `mapstructure:"logger"`
	Database  config.Database      `mapstructure:"database"`
	Redis     config.Redis         `mapstructure:"redis"`
	API       config.API           `mapstructure:"api"`
	Cache     Cache                `mapstructure:"cache"`
	Scheduler Scheduler            `mapstructure:"scheduler"`
	Analysis  analyzercfg.Analysis `mapstructure:"analysis"`
}

// Load loads the API service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.Analysis.ApplyDefaults()
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Cache.CleanupInterval == 0 {
		c.Cache.CleanupInterval = 10 * time.Minute
	}
	if c.Scheduler.PipelineCron == "" {
		// 4:45 PM WIB, after the IDX close.
		c.Scheduler.PipelineCron = "45 16 * * 1-5"
	}
	if c.Scheduler.MarketDataCron == "" {
		c.Scheduler.MarketDataCron = "30 16 * * 1-5"
	}
	if c.Scheduler.StreamMaxLen == 0 {
		c.Scheduler.StreamMaxLen = 1000
	}
}
