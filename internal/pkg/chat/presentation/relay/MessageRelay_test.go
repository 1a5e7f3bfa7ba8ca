package relay

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	busport "market-chat/internal/infrastructure/bus/port"
	chat "market-chat/internal/pkg/chat/application/domain"
)

type fakeBroadcaster struct {
	mu       sync.Mutex
	byRoom   map[int64][][]byte
	byUser   map[string][][]byte
	sessions int
}

func newFakeBroadcaster(sessions int) *fakeBroadcaster {
	return &fakeBroadcaster{
		byRoom:   make(map[int64][][]byte),
		byUser:   make(map[string][][]byte),
		sessions: sessions,
	}
}

func (b *fakeBroadcaster) SendToRoom(roomID int64, payload []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byRoom[roomID] = append(b.byRoom[roomID], append([]byte(nil), payload...))
	return b.sessions
}

func (b *fakeBroadcaster) SendToUser(userKey string, payload []byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byUser[userKey] = append(b.byUser[userKey], append([]byte(nil), payload...))
	return true
}

type capturingBus struct {
	handler busport.Handler
}

func (b *capturingBus) Publish(context.Context, []byte) error { return nil }
func (b *capturingBus) Subscribe(_ context.Context, h busport.Handler) error {
	b.handler = h
	return nil
}
func (b *capturingBus) Close() error { return nil }

func TestRelayRoutesByRoomID(t *testing.T) {
	broadcaster := newFakeBroadcaster(2)
	bus := &capturingBus{}
	require.NoError(t, NewMessageRelay(broadcaster).Subscribe(context.Background(), bus))
	require.NotNil(t, bus.handler)

	env := chat.NewMessageEnvelope(
		chat.Message{RoomID: 7, SenderID: 10, Content: "hello"},
		chat.Member{ID: 10, Email: "buyer@example.com", Name: "Buyer"},
	)
	payload, err := env.Encode()
	require.NoError(t, err)

	bus.handler(context.Background(), payload)

	require.Len(t, broadcaster.byRoom[7], 1)
	// The relay forwards the wire payload untouched.
	assert.Equal(t, payload, broadcaster.byRoom[7][0])
}

func TestRelayRoutesLeaveNotifications(t *testing.T) {
	broadcaster := newFakeBroadcaster(1)
	bus := &capturingBus{}
	require.NoError(t, NewMessageRelay(broadcaster).Subscribe(context.Background(), bus))

	payload, err := chat.NewLeaveEnvelope(3, "Buyer").Encode()
	require.NoError(t, err)
	bus.handler(context.Background(), payload)

	assert.Len(t, broadcaster.byRoom[3], 1)
}

func TestRelayDropsUndecodablePayload(t *testing.T) {
	broadcaster := newFakeBroadcaster(1)
	bus := &capturingBus{}
	require.NoError(t, NewMessageRelay(broadcaster).Subscribe(context.Background(), bus))

	bus.handler(context.Background(), []byte("{not json"))

	assert.Empty(t, broadcaster.byRoom)
	assert.Empty(t, broadcaster.byUser)
}
