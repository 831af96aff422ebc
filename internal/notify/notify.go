package notify

import "context"

// Notifier delivers short operational alerts (new reservation, new
// order) to a side channel. Implementations must never block the
// primary operation: failures are logged by the caller and swallowed.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Noop discards every message. Used when no channel is configured and
// in tests.
type Noop struct{}

func (Noop) Send(context.Context, string) error { return nil }
