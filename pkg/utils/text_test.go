package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafeText(t *testing.T) {
	assert.Equal(t, "saham naik tajam", SafeText("  saham\x00   naik \n\t tajam  "))
	assert.Equal(t, "", SafeText("   "))
}

func TestCleanToValidUTF8(t *testing.T) {
	assert.Equal(t, "harga", CleanToValidUTF8("harga"))
	assert.Equal(t, "harga", CleanToValidUTF8("har\xffga"))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "laba", TruncateRunes("laba", 10))
	assert.Equal(t, "lab", TruncateRunes("laba", 3))
	assert.Equal(t, "ké", TruncateRunes("kénaikan", 2))
	assert.Equal(t, "", TruncateRunes("apa", 0))
}

func TestContainsString(t *testing.T) {
	items := []string{"BBCA", "TLKM"}
	assert.True(t, ContainsString(items, "TLKM"))
	assert.False(t, ContainsString(items, "ASII"))
	assert.False(t, ContainsString(nil, "BBCA"))
}

func TestTruncateToDate(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	assert.NoError(t, err)

	got := TruncateToDate(time.Date(2025, 8, 14, 16, 45, 30, 123, loc))

	assert.Equal(t, time.Date(2025, 8, 14, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}
