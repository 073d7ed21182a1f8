package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Subakiz/ai-investment-manager/internal/analyzer/config"
	"github.com/Subakiz/ai-investment-manager/internal/analyzer/dto"
	"github.com/Subakiz/ai-investment-manager/pkg/logger"
	"github.com/Subakiz/ai-investment-manager/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiAIRepository implements AIRepository using the Google Gemini API.
type geminiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	return &geminiAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}, nil
}

// AnalyzeArticleSentiment asks Gemini for a structured sentiment object for
// one article. The response must carry all five required keys; anything else
// is an error so the caller can retry.
func (r *geminiAIRepository) AnalyzeArticleSentiment(ctx context.Context, articleText, companyName, symbol string) (*dto.SentimentResult, error) {
	prompt := BuildSentimentPrompt(articleText, companyName, symbol)

	started := time.Now()
	geminiResp, err := r.executeGeminiAIRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result, err := r.parseSentimentResponse(geminiResp)
	if err != nil {
		return nil, err
	}
	result.ModelUsed = r.cfg.Gemini.Model
	result.ProcessingTimeMs = time.Since(started).Milliseconds()
	return result, nil
}

func (r *geminiAIRepository) executeGeminiAIRequest(ctx context.Context, prompt string) (*dto.GeminiAPIResponse, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("Failed to marshal payload", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", r.cfg.Gemini.BaseURL, r.cfg.Gemini.Model, r.cfg.Gemini.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to Gemini API", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from Gemini API", logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("received non-OK response from Gemini API: %d - %s", resp.StatusCode, string(body))
	}

	var geminiResp dto.GeminiAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return &geminiResp, nil
}

// rawSentiment tolerates loosely typed AI output: themes may arrive as a
// scalar string instead of a list.
type rawSentiment struct {
	SentimentScore *float64        `json:"sentiment_score"`
	Confidence     *float64        `json:"confidence"`
	Themes         json.RawMessage `json:"themes"`
	Summary        *string         `json:"summary"`
	Relevance      *float64        `json:"relevance"`
}

func (r *geminiAIRepository) parseSentimentResponse(resp *dto.GeminiAPIResponse) (*dto.SentimentResult, error) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("invalid response from Gemini API: no content found")
	}

	jsonString := resp.Candidates[0].Content.Parts[0].Text
	jsonString = strings.Trim(jsonString, "`json\n`")

	var raw rawSentiment
	if err := json.Unmarshal([]byte(jsonString), &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sentiment result from Gemini response: %w", err)
	}

	if raw.SentimentScore == nil || raw.Confidence == nil || raw.Themes == nil || raw.Summary == nil || raw.Relevance == nil {
		return nil, fmt.Errorf("sentiment response missing required fields: %s", jsonString)
	}

	themes, err := coerceThemes(raw.Themes)
	if err != nil {
		return nil, fmt.Errorf("failed to decode themes: %w", err)
	}

	return &dto.SentimentResult{
		SentimentScore: *raw.SentimentScore,
		Confidence:     *raw.Confidence,
		Themes:         themes,
		Summary:        *raw.Summary,
		Relevance:      *raw.Relevance,
	}, nil
}

// coerceThemes accepts either a JSON array of strings or a bare string.
func coerceThemes(raw json.RawMessage) ([]string, error) {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	return nil, fmt.Errorf("themes is neither a string list nor a string: %s", string(raw))
}
