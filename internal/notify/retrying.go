package notify

import (
	"context"

	"git.home.luguber.info/inful/buildreloc/internal/eventstore"
	"git.home.luguber.info/inful/buildreloc/internal/retry"
)

// RetryingPublisher retries transient publish failures under a backoff policy.
type RetryingPublisher struct {
	next   Publisher
	policy retry.Policy
}

// WithRetry wraps next so retryable publish errors are retried.
func WithRetry(next Publisher, policy retry.Policy) *RetryingPublisher {
	return &RetryingPublisher{next: next, policy: policy}
}

func (r *RetryingPublisher) Publish(ctx context.Context, e eventstore.Event) error {
	return r.policy.Do(ctx, "publish "+string(e.Type), func(ctx context.Context) error {
		return r.next.Publish(ctx, e)
	})
}

func (r *RetryingPublisher) Close() error { return r.next.Close() }
