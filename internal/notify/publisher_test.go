package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	relerrors "git.home.luguber.info/inful/buildreloc/internal/errors"
	"git.home.luguber.info/inful/buildreloc/internal/eventstore"
	"git.home.luguber.info/inful/buildreloc/internal/retry"
)

func TestSubject(t *testing.T) {
	require.Equal(t, "buildreloc.events.cleaned", Subject("buildreloc.events", eventstore.EventCleaned))
	require.Equal(t, "ci.clean_failed", Subject("ci", eventstore.EventCleanFailed))
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	require.NoError(t, p.Publish(context.Background(), eventstore.Event{Type: eventstore.EventCleaned}))
	require.NoError(t, p.Close())
}

func TestNewNATSPublisher_Errors(t *testing.T) {
	_, err := NewNATSPublisher("", "buildreloc.events", 0)
	require.Error(t, err)

	// Nothing listens on port 1; the dial is refused immediately.
	_, err = NewNATSPublisher("nats://127.0.0.1:1", "buildreloc.events", 200*time.Millisecond)
	require.Error(t, err)
	require.True(t, relerrors.IsCategory(err, relerrors.CategoryNetwork))
	require.True(t, relerrors.IsRetryable(err))
}

func TestNATSPublisher_CloseNil(t *testing.T) {
	var p *NATSPublisher
	require.NoError(t, p.Close())
}

type flakyPublisher struct {
	failures int
	calls    int
	closed   bool
}

func (f *flakyPublisher) Publish(context.Context, eventstore.Event) error {
	f.calls++
	if f.calls <= f.failures {
		return relerrors.PublishError("buildreloc.events.cleaned", errors.New("nats: timeout"))
	}
	return nil
}

func (f *flakyPublisher) Close() error {
	f.closed = true
	return nil
}

func TestRetryingPublisher(t *testing.T) {
	policy := retry.NewPolicy(retry.BackoffFixed, time.Millisecond, time.Millisecond, 2)

	flaky := &flakyPublisher{failures: 2}
	p := WithRetry(flaky, policy)
	require.NoError(t, p.Publish(t.Context(), eventstore.Event{Type: eventstore.EventCleaned}))
	require.Equal(t, 3, flaky.calls)

	down := &flakyPublisher{failures: 10}
	err := WithRetry(down, policy).Publish(t.Context(), eventstore.Event{Type: eventstore.EventCleaned})
	require.Error(t, err)
	require.Equal(t, 3, down.calls)

	require.NoError(t, p.Close())
	require.True(t, flaky.closed)
}
