package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDigest(t *testing.T) {
	entries := []DigestEntry{
		{Symbol: "BBCA", CompanyName: "Bank Central Asia Tbk", Action: "BUY", CombinedScore: 78.5, Confidence: "HIGH"},
		{Symbol: "TLKM", CompanyName: "Telkom Indonesia Tbk", Action: "HOLD", CombinedScore: 55.0, Confidence: "MEDIUM"},
		{Symbol: "ADRO", CompanyName: "Adaro Energy Tbk", Action: "BUY", CombinedScore: 70.1, Confidence: "MEDIUM"},
	}

	msg := FormatDigest(entries)

	assert.Contains(t, msg, "*Daily Stock Picks*")
	assert.Contains(t, msg, "1. *BBCA* (Bank Central Asia Tbk)")
	assert.Contains(t, msg, "Score: 78.50 | Confidence: HIGH")
	assert.Contains(t, msg, "2. *ADRO* (Adaro Energy Tbk)")
	assert.NotContains(t, msg, "TLKM", "holds are not part of the digest")
	assert.Contains(t, msg, "_Not financial advice._")
}

func TestFormatDigestNoBuys(t *testing.T) {
	entries := []DigestEntry{
		{Symbol: "TLKM", Action: "HOLD"},
		{Symbol: "ASII", Action: "SELL"},
	}

	assert.Empty(t, FormatDigest(entries))
}
