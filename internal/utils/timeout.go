package utils

import (
	"context"
	"time"
)

// DefaultMergeTimeout bounds the cart merge round trip made on login.
const DefaultMergeTimeout = 10 * time.Second

func WithMergeTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultMergeTimeout
	}

	return context.WithTimeout(ctx, timeout)
}
