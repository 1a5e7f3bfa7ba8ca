package relay

import (
	"context"
	"log/slog"

	busport "market-chat/internal/infrastructure/bus/port"
	"market-chat/internal/infrastructure/realtime"
	chat "market-chat/internal/pkg/chat/application/domain"
)

// MessageRelay is the instance's single fanout subscriber. Every envelope
// published on the shared channel, by this instance or any peer, lands here
// and is re-routed to the local topic derived from the envelope's chatRoomId.
// Decode failures are logged and dropped; delivery is at-most-once.
type MessageRelay struct {
	broadcaster realtime.Broadcaster
}

func NewMessageRelay(b realtime.Broadcaster) *MessageRelay {
	return &MessageRelay{broadcaster: b}
}

// Subscribe registers the relay on the bus.
func (r *MessageRelay) Subscribe(ctx context.Context, bus busport.Bus) error {
	return bus.Subscribe(ctx, r.handle)
}

func (r *MessageRelay) handle(ctx context.Context, payload []byte) {
	env, err := chat.DecodeEnvelope(payload)
	if err != nil {
		slog.Error("dropping undecodable fanout payload", "error", err)
		return
	}

	delivered := r.broadcaster.SendToRoom(env.ChatRoomID, payload)
	slog.Debug("fanout delivered",
		"room_id", env.ChatRoomID,
		"kind", env.MessageType,
		"sessions", delivered)
}
