package port

import "context"

// Handler consumes one payload delivered on the fanout channel. Handlers must
// not block for long; a slow handler delays every subsequent delivery on this
// instance.
type Handler func(ctx context.Context, payload []byte)

// Bus is the cross-instance fanout channel. Every server instance publishes to
// and subscribes on the same logical channel; room routing happens on the
// subscriber side from the payload itself.
//
// Delivery is at-most-once and best-effort: there is no acknowledgment, retry,
// or cross-publisher ordering guarantee. Payload encoding is up to callers to
// keep this port free from serialization concerns.
type Bus interface {
	// Publish sends payload to every subscriber on every instance, including
	// the publishing instance itself.
	Publish(ctx context.Context, payload []byte) error

	// Subscribe registers the instance's single delivery handler and starts
	// consuming in the background. It returns once the subscription is
	// established; delivery stops when ctx is canceled or Close is called.
	Subscribe(ctx context.Context, h Handler) error

	Close() error
}
