package ports

import "context"

// Notifier is a fire-and-forget key/value publisher. Publish never returns
// an error: failures are logged by the implementation and swallowed, so a
// broken bus can never block or fail an orchestrator.
type Notifier interface {
	Publish(ctx context.Context, key, value string)
}
