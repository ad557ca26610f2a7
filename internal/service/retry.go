package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/logger"
)

const storeRetryBackoff = 200 * time.Millisecond

// isDomainError reports whether the error carries business meaning and
// must surface to the caller as-is. Everything else is treated as a
// transient store failure.
func isDomainError(err error) bool {
	if errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrForbiddenScope) ||
		errors.Is(err, domain.ErrInvalidDateRange) ||
		errors.Is(err, domain.ErrVehicleUnavailable) {
		return true
	}
	var ve *domain.ValidationError
	var te *domain.InvalidTransitionError
	return errors.As(err, &ve) || errors.As(err, &te)
}

// withStoreRetry runs op, retrying once after a short backoff when the
// failure looks transient. A second failure comes back wrapped as
// ErrServiceUnavailable so handlers map it to 503 rather than leaking
// driver errors.
func withStoreRetry(ctx context.Context, name string, op func() error) error {
	err := op()
	if err == nil || isDomainError(err) {
		return err
	}

	logger.WarnContext(ctx, "store operation failed, retrying",
		"operation", name, "error", err)

	select {
	case <-time.After(storeRetryBackoff):
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", name, ctx.Err())
	}

	err = op()
	if err == nil || isDomainError(err) {
		return err
	}

	logger.ErrorContext(ctx, "store operation failed after retry",
		"operation", name, "error", err)
	return fmt.Errorf("%s: %w: %v", name, domain.ErrServiceUnavailable, err)
}
