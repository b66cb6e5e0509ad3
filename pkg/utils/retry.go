package utils

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const retryAttempts = 5

// Retry executes task with Fibonacci backoff (1s base) up to 5 retries.
// Only errors marked with Transient are retried; anything else aborts the
// loop immediately. The final error is logged and returned when retries
// are exhausted.
func Retry(ctx context.Context, logger *zap.Logger, task func(ctx context.Context) error) error {
	return RetryWithBackoff(ctx, logger, 1*time.Second, task)
}

// RetryWithBackoff is Retry with a caller-controlled backoff base.
func RetryWithBackoff(ctx context.Context, logger *zap.Logger, base time.Duration, task func(ctx context.Context) error) error {
	b := retry.NewFibonacci(base)
	if err := retry.Do(ctx, retry.WithMaxRetries(retryAttempts, b), task); err != nil {
		logger.Warn("giving up after repeated failures", zap.Error(err))
		return err
	}
	return nil
}

// Transient marks err as retryable for Retry. Call sites decide what is
// transient; a 4xx response is not, a connection reset is.
func Transient(err error) error {
	return retry.RetryableError(err)
}
