package utils

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log"
	"runtime/debug"

	"github.com/Subakiz/ai-investment-manager/pkg/logger"
)

// GoSafe runs fn in a goroutine and recovers panics so a single bad task
// cannot take down the whole worker.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether the context is still alive, logging when it
// is not so batch loops can bail out cleanly.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.Info("Context cancelled, stopping work", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}

// HashString returns the hex MD5 of s, used for article dedup identifiers.
func HashString(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
