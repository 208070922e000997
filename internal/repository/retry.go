// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"strings"
	"time"

	"fanboard/internal/models"
	"fanboard/internal/observability"

	"github.com/cenkalti/backoff/v5"
)

// maxStorageAttempts bounds how often a transient lock fault is retried before
// it surfaces as STORAGE_UNAVAILABLE.
const maxStorageAttempts = 4

// isTransientStorageErr reports whether err is a SQLite lock/busy fault that a
// short retry is expected to clear.
func isTransientStorageErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "table is locked") ||
		strings.Contains(msg, "database is busy") ||
		strings.Contains(msg, "sqlite_busy")
}

func storageBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	return b
}

// withRetry runs fn, retrying transient storage faults with exponential
// backoff. Non-transient errors abort immediately; exhausted retries surface
// as STORAGE_UNAVAILABLE.
func withRetry(ctx context.Context, operation string, fn func() error) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		if err := fn(); err != nil {
			if isTransientStorageErr(err) {
				observability.StorageRetries.WithLabelValues(operation).Inc()
				return struct{}{}, err
			}
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(storageBackOff()), backoff.WithMaxTries(maxStorageAttempts))

	if err != nil && isTransientStorageErr(err) {
		return models.NewStorageUnavailableError(err)
	}
	return err
}
