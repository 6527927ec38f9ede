package usecase

import (
	"errors"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	apperrors "storefront/internal/errors"
)

// Backoff intervals: attempt 1 (0ms), attempt 2 (100ms), attempt 3 (200ms).
var retryBackoffs = []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

// withRetry re-runs op when MySQL reports a deadlock, a lock wait
// timeout or a duplicate key (the order-number race resolves itself on
// the next attempt). Any other error returns immediately.
func withRetry(logger *zap.Logger, maxAttempts int, op func() error) error {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		if !isRetryableConflict(err) {
			return err
		}

		if attempt < maxAttempts {
			idx := attempt - 1
			if idx >= len(retryBackoffs) {
				idx = len(retryBackoffs) - 1
			}
			// Jitter: ±20% of the backoff base.
			jitter := time.Duration(float64(retryBackoffs[idx]) * (0.8 + rand.Float64()*0.4))
			time.Sleep(jitter)
			logger.Warn("storage conflict, retrying",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
		}
	}

	return apperrors.NewDeadlockError("max retries exceeded")
}

func isRetryableConflict(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		// 1213 deadlock, 1205 lock wait timeout, 1062 duplicate key.
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205 || mysqlErr.Number == 1062
	}
	return false
}
