package config

import (
	"time"

	"github.com/Subakiz/ai-investment-manager/pkg/config"
)

// Analyzer holds worker-specific configuration.
type Analyzer struct {
	RedisStreamTaskTimeout  time.Duration `mapstructure:"redis_stream_task_timeout"`
	RedisStreamBlockTimeout time.Duration `mapstructure:"redis_stream_block_timeout"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// YahooFinance holds the configuration for the Yahoo Finance chart API.
type YahooFinance struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// NewsIngest holds the configuration for the RSS news scraper.
type NewsIngest struct {
	GoogleNewsBaseURL  string        `mapstructure:"google_news_base_url"`
	MaxArticlesPerRun  int           `mapstructure:"max_articles_per_run"`
	MaxArticleAge      time.Duration `mapstructure:"max_article_age"`
	FetchDelay         time.Duration `mapstructure:"fetch_delay"`
	BlacklistedDomains []string      `mapstructure:"blacklisted_domains"`
}

// Analysis holds the scoring engine constants. The weights are fixed design
// heuristics, not fitted parameters; defaults mirror the documented values.
type Analysis struct {
	ValuationWeight    float64       `mapstructure:"valuation_weight"`
	TechnicalWeight    float64       `mapstructure:"technical_weight"`
	QuantitativeWeight float64       `mapstructure:"quantitative_weight"`
	QualitativeWeight  float64       `mapstructure:"qualitative_weight"`
	HistoricalDays     int           `mapstructure:"historical_days"`
	RiskWindowDays     int           `mapstructure:"risk_window_days"`
	SentimentWindow    time.Duration `mapstructure:"sentiment_window"`
	SentimentMaxRetry  int           `mapstructure:"sentiment_max_retry"`
	SentimentRateDelay time.Duration `mapstructure:"sentiment_rate_delay"`
	ArticleBatchLimit  int           `mapstructure:"article_batch_limit"`
}

// Config holds the full configuration for the analysis service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	Telegram     config.Telegram `mapstructure:"telegram"`
	Analyzer     Analyzer        `mapstructure:"analyzer"`
	Gemini       Gemini          `mapstructure:"gemini"`
	AI           AI              `mapstructure:"ai"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	NewsIngest   NewsIngest      `mapstructure:"news_ingest"`
	Analysis     Analysis        `mapstructure:"analysis"`
}

// Load loads the analyzer configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.Analysis.ApplyDefaults()
	cfg.NewsIngest.applyDefaults()
	return &cfg, nil
}

func (n *NewsIngest) applyDefaults() {
	if n.GoogleNewsBaseURL == "" {
		n.GoogleNewsBaseURL = "https://news.google.com/rss/search"
	}
	if n.MaxArticlesPerRun == 0 {
		n.MaxArticlesPerRun = 50
	}
	if n.MaxArticleAge == 0 {
		n.MaxArticleAge = 7 * 24 * time.Hour
	}
	if n.FetchDelay == 0 {
		n.FetchDelay = 2 * time.Second
	}
}

func (a *Analysis) ApplyDefaults() {
	if a.ValuationWeight == 0 && a.TechnicalWeight == 0 {
		a.ValuationWeight = 0.4
		a.TechnicalWeight = 0.6
	}
	if a.QuantitativeWeight == 0 && a.QualitativeWeight == 0 {
		a.QuantitativeWeight = 0.5
		a.QualitativeWeight = 0.5
	}
	if a.HistoricalDays == 0 {
		a.HistoricalDays = 252
	}
	if a.RiskWindowDays == 0 {
		a.RiskWindowDays = 30
	}
	if a.SentimentWindow == 0 {
		a.SentimentWindow = 24 * time.Hour
	}
	if a.SentimentMaxRetry == 0 {
		a.SentimentMaxRetry = 3
	}
	if a.SentimentRateDelay == 0 {
		a.SentimentRateDelay = time.Second
	}
	if a.ArticleBatchLimit == 0 {
		a.ArticleBatchLimit = 100
	}
}
