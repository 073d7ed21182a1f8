package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/config"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/repository"
	"github.com/Subakiz/ai-investment-manager/internal/entity"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"
	"github.com/Subakiz/ai-investment-manager/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
)

const rssQueryParams = "hl=id&gl=ID&ceid=ID:id"

// NewsScraperService pulls Google News RSS feeds per LQ45 symbol, extracts
// readable article text and stores deduplicated articles with their stock
// mentions.
type NewsScraperService interface {
	Run(ctx context.Context) (*dto.RunSummary, error)
}

type newsScraperService struct {
	cfg         *config.Config
	log         *logger.Logger
	stocksRepo  repository.StocksRepository
	articleRepo repository.NewsArticleRepository
	client      *http.Client
	seenCache   *cache.Cache
}

// NewNewsScraperService creates a new RSS news scraper.
func NewNewsScraperService(
	cfg *config.Config,
	log *logger.Logger,
	stocksRepo repository.StocksRepository,
	articleRepo repository.NewsArticleRepository,
) NewsScraperService {
	return &newsScraperService{
		cfg:         cfg,
		log:         log,
		stocksRepo:  stocksRepo,
		articleRepo: articleRepo,
		client:      &http.Client{Timeout: 30 * time.Second},
		seenCache:   cache.New(5*time.Minute, 10*time.Minute),
	}
}

// Run walks the per-symbol RSS queries and ingests new articles. Dedup is by
// content hash so a rerun never duplicates rows.
func (s *newsScraperService) Run(ctx context.Context) (*dto.RunSummary, error) {
	stocks, err := s.stocksRepo.GetLQ45(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list LQ45 stocks: %w", err)
	}

	summary := &dto.RunSummary{TotalSymbols: len(stocks)}
	for _, stock := range stocks {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		saved, err := s.scrapeSymbol(ctx, stock)
		if err != nil {
			s.log.Error("Failed to scrape symbol feed",
				logger.StringField("symbol", stock.Symbol),
				logger.ErrorField(err),
			)
			summary.Errors++
			continue
		}
		summary.Analyzed++
		summary.Saved += saved
	}

	s.log.Info("News scraping completed",
		logger.IntField("symbols", summary.Analyzed),
		logger.IntField("articles", summary.Saved),
		logger.IntField("errors", summary.Errors),
	)
	return summary, nil
}

func (s *newsScraperService) scrapeSymbol(ctx context.Context, stock entity.Stock) (int, error) {
	feedURL := fmt.Sprintf("%s?q=saham+%s&%s",
		s.cfg.NewsIngest.GoogleNewsBaseURL, CleanIDXSymbol(stock.Symbol), rssQueryParams)
	s.log.Info("Processing RSS feed", logger.StringField("url", feedURL))

	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to parse RSS feed: %w", err)
	}

	sort.Slice(feed.Items, func(i, j int) bool {
		if feed.Items[i].PublishedParsed == nil || feed.Items[j].PublishedParsed == nil {
			return false
		}
		return feed.Items[i].PublishedParsed.After(*feed.Items[j].PublishedParsed)
	})

	saved := 0
	cutoff := utils.TimeNowWIB().Add(-s.cfg.NewsIngest.MaxArticleAge)
	for _, item := range feed.Items {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		if saved >= s.cfg.NewsIngest.MaxArticlesPerRun {
			break
		}
		if item.PublishedParsed == nil || item.PublishedParsed.Before(cutoff) {
			continue
		}

		hash := utils.HashString(item.Link + "|" + item.Published)
		if _, dup := s.seenCache.Get(hash); dup {
			continue
		}
		s.seenCache.Set(hash, struct{}{}, cache.DefaultExpiration)

		ok, err := s.processItem(ctx, item, stock, hash)
		if err != nil {
			s.log.Error("Failed to process news item",
				logger.StringField("title", item.Title),
				logger.ErrorField(err),
			)
			continue
		}
		if ok {
			saved++
			if !sleepCtx(ctx, s.cfg.NewsIngest.FetchDelay) {
				break
			}
		}
	}
	return saved, nil
}

func (s *newsScraperService) processItem(ctx context.Context, item *gofeed.Item, stock entity.Stock, hash string) (bool, error) {
	parsedURL, err := url.Parse(item.Link)
	if err != nil {
		return false, fmt.Errorf("failed to parse article URL: %w", err)
	}
	if utils.ContainsString(s.cfg.NewsIngest.BlacklistedDomains, parsedURL.Hostname()) {
		s.log.Warn("Skipping blacklisted domain", logger.StringField("domain", parsedURL.Hostname()))
		return false, nil
	}

	content, err := s.extractContent(ctx, item.Link)
	if err != nil {
		return false, fmt.Errorf("failed to extract content: %w", err)
	}

	article := &entity.NewsArticle{
		Title:          utils.CleanToValidUTF8(item.Title),
		Content:        content,
		URL:            item.Link,
		Source:         parsedURL.Hostname(),
		PublishedAt:    item.PublishedParsed,
		HashIdentifier: hash,
		Language:       "id",
		StockMentions: []entity.NewsStockMention{
			{StockID: stock.ID, MentionCount: 1},
		},
	}
	if err := s.articleRepo.CreateIgnoreConflict(ctx, article); err != nil {
		return false, fmt.Errorf("failed to store article: %w", err)
	}
	return true, nil
}

// extractContent fetches the page and reduces it to readable plain text.
func (s *newsScraperService) extractContent(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "id-ID,id;q=0.8,en-US,en;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch article, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse article content: %w", err)
	}
	inner, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to parse extracted content: %w", err)
	}

	text := strings.TrimSpace(inner.Text())
	return utils.SafeText(utils.CleanToValidUTF8(text)), nil
}
