package reservation

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	inventoryRepo "deskhive/database/repository/inventory"
	"deskhive/utils"
)

const (
	storeRetryAttempts = 3
	storeRetryBaseWait = 50 * time.Millisecond
)

// withStoreRetry runs a store operation, retrying transient failures a
// bounded number of times with linear backoff. Not-found results are
// returned immediately; they are protocol outcomes, not failures. After
// the last attempt the failure surfaces as a TransientStoreError.
func withStoreRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= storeRetryAttempts; attempt++ {
		err = fn()
		if err == nil || errors.Is(err, inventoryRepo.ErrNotFound) {
			return err
		}
		utils.GetLogger().Warn("store operation failed, retrying",
			zap.String("op", op), zap.Int("attempt", attempt), zap.Error(err))

		select {
		case <-time.After(time.Duration(attempt) * storeRetryBaseWait):
		case <-ctx.Done():
			return newError(CodeTransientStore, "%s: %v", op, ctx.Err())
		}
	}
	return newError(CodeTransientStore, "%s failed after %d attempts: %v", op, storeRetryAttempts, err)
}
