package repository

import (
	"fmt"

	"github.com/Subakiz/ai-investment-manager/pkg/utils"
)

// maxArticleChars bounds the article body sent to the model to stay within
// token limits.
const maxArticleChars = 2000

// BuildSentimentPrompt builds the structured sentiment prompt for one
// article. The model must answer with a bare JSON object carrying exactly the
// five keys the normalizer validates.
func BuildSentimentPrompt(articleText, companyName, symbol string) string {
	companyInfo := ""
	switch {
	case companyName != "" && symbol != "":
		companyInfo = fmt.Sprintf(" about %s (%s)", companyName, symbol)
	case companyName != "":
		companyInfo = fmt.Sprintf(" about %s", companyName)
	case symbol != "":
		companyInfo = fmt.Sprintf(" about %s", symbol)
	}

	articleText = utils.TruncateRunes(articleText, maxArticleChars)

	return fmt.Sprintf(`Analyze this Indonesian financial news article%s and return ONLY a valid JSON object with these exact keys:

REQUIRED RESPONSE FORMAT (JSON only, no additional text):
{
  "sentiment_score": <float from -1.0 (very negative) to 1.0 (very positive)>,
  "confidence": <float from 0.0 to 1.0 indicating analysis confidence>,
  "themes": [<array of 1-3 key themes, e.g., ["earnings growth", "digital transformation"]>],
  "summary": "<single sentence summary, max 100 characters>",
  "relevance": <float from 0.0 to 1.0 indicating relevance to stock price movement>
}

ANALYSIS GUIDELINES:
- Focus on financial impact and business implications
- Consider both short-term and long-term effects on company value
- For Indonesian content, understand local business context
- Themes should be concise business/financial concepts
- Summary should capture the main investment-relevant point

ARTICLE TEXT:
%s`, companyInfo, articleText)
}
