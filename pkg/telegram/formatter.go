package telegram

import (
	"fmt"
	"strings"
)

// DigestEntry is one line of the daily recommendation digest.
type DigestEntry struct {
	Symbol        string
	CompanyName   string
	Action        string
	CombinedScore float64
	Confidence    string
}

// FormatDigest renders the daily top-BUY message in Telegram Markdown.
// Returns "" when there is nothing worth sending.
func FormatDigest(entries []DigestEntry) string {
	buys := make([]DigestEntry, 0, len(entries))
	for _, e := range entries {
		if e.Action == "BUY" {
			buys = append(buys, e)
		}
	}
	if len(buys) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("*Daily Stock Picks*\n\n")
	for i, e := range buys {
		b.WriteString(fmt.Sprintf("%d. *%s* (%s)\n", i+1, e.Symbol, e.CompanyName))
		b.WriteString(fmt.Sprintf("   Score: %.2f | Confidence: %s\n", e.CombinedScore, e.Confidence))
	}
	b.WriteString("\n_Not financial advice._")
	return b.String()
}
