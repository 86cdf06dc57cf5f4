// retry.go retries store operations that fail on transient SQLite errors.
//
// An import can run while another lstats process is reading the same
// archive. WAL mode lets readers and one writer proceed together, and
// busy_timeout absorbs most lock waits, but SQLITE_LOCKED and short reads
// under contention still surface as errors. Those are retried here with
// exponential backoff and jitter.
package store

import (
	"log/slog"
	"math/rand"
	"strings"
	"time"
)

type retryConfig struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

var defaultRetryConfig = retryConfig{
	maxRetries: 3,
	baseDelay:  50 * time.Millisecond,
	maxDelay:   500 * time.Millisecond,
}

// transientPatterns are substrings of modernc.org/sqlite error messages
// for conditions that clear on their own.
var transientPatterns = []string{
	"SQLITE_BUSY",
	"SQLITE_LOCKED",
	"IOERR_SHORT_READ",
	"database is locked",
	"database table is locked",
	"(5)",   // SQLITE_BUSY
	"(6)",   // SQLITE_LOCKED
	"(522)", // SQLITE_IOERR_SHORT_READ
}

func isTransientSQLiteErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// retryOp runs fn until it succeeds, fails with a non-transient error, or
// runs out of attempts. It returns the last error.
func retryOp(cfg retryConfig, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt <= cfg.maxRetries; attempt++ {
		if err = fn(); err == nil || !isTransientSQLiteErr(err) {
			return err
		}
		if attempt < cfg.maxRetries {
			delay := backoffDelay(cfg, attempt)
			slog.Debug("store: transient error, retrying", "op", op, "attempt", attempt+1, "delay", delay, "error", err)
			time.Sleep(delay)
		}
	}
	return err
}

// backoffDelay returns baseDelay*2^attempt capped at maxDelay, plus up to
// baseDelay of jitter.
func backoffDelay(cfg retryConfig, attempt int) time.Duration {
	delay := cfg.baseDelay << uint(attempt)
	if delay > cfg.maxDelay {
		delay = cfg.maxDelay
	}
	return delay + time.Duration(rand.Int63n(int64(cfg.baseDelay)))
}
