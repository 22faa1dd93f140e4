package observability

import (
	"log/slog"
	"time"
)

// TimeOperationResult runs fn and records its latency, count and failures
// under the operation tag. With a logger it also logs the outcome.
func TimeOperationResult[T any](logger *slog.Logger, metrics Metrics, operation string, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fn()
	recordOperation(logger, metrics, operation, time.Since(start), err)
	return result, err
}

func recordOperation(logger *slog.Logger, metrics Metrics, operation string, elapsed time.Duration, err error) {
	if logger != nil {
		attrs := []any{"operation", operation, DurationKey, elapsed.Milliseconds()}
		if err != nil {
			logger.Error("operation failed", append(attrs, "error", err.Error())...)
		} else {
			logger.Info("operation completed", attrs...)
		}
	}
	if metrics == nil {
		return
	}
	tag := T("operation", operation)
	metrics.Timing(MetricOperationDuration, elapsed, tag)
	metrics.Counter(MetricOperationTotal, 1, tag)
	if err != nil {
		metrics.Counter(MetricOperationErrors, 1, tag)
	}
}
