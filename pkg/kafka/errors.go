package kafka

import (
	"context"
	"errors"
)

var (
	ErrProducerClosed = errors.New("kafka producer is closed")
	ErrConsumerClosed = errors.New("kafka consumer is closed")
	ErrEmptyKey       = errors.New("message key cannot be empty")
	ErrEmptyValue     = errors.New("message value cannot be empty")
)

// ShouldRetry reports whether a failed delivery attempt should be retried.
// Context cancellation is never retried; everything else is retried until the
// attempt budget runs out.
func ShouldRetry(err error, retries, maxRetries int) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return retries < maxRetries
}
