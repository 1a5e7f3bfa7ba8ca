package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "market-chat/internal/pkg/chat/application/domain"
)

func seedRoom(t *testing.T) (*fakeStore, *fakeDirectory, int64) {
	t.Helper()
	store, dir := seedPair(t)
	roomID, err := NewCreateRoomUseCase(store, dir).Execute(context.Background(),
		CreateRoomInput{PostID: 1, RequesterEmail: "buyer@example.com"})
	require.NoError(t, err)
	return store, dir, roomID
}

func TestSendMessage_PersistsAndPublishes(t *testing.T) {
	store, dir, roomID := seedRoom(t)
	bus := &fakeBus{}
	cache := newFakeCache()
	uc := NewSendMessageUseCase(store, dir, bus, cache)

	msg, err := uc.Execute(context.Background(), SendMessageInput{RoomID: roomID, SenderID: 10, Content: "hello there"})
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.NotZero(t, msg.ID)
	assert.Equal(t, "Buyer", msg.SenderName)

	published := bus.published()
	require.Len(t, published, 1)

	env, err := chat.DecodeEnvelope(published[0])
	require.NoError(t, err)
	assert.Equal(t, chat.KindMessage, env.MessageType)
	assert.Equal(t, roomID, env.ChatRoomID)
	assert.Equal(t, int64(10), env.SenderID)
	assert.Equal(t, "Buyer", env.SenderName)
	assert.Equal(t, "buyer@example.com", env.SenderEmail)
	assert.Equal(t, "hello there", env.Content)

	// The room preview follows the latest message.
	preview, err := cache.Get(context.Background(), previewKey(roomID))
	require.NoError(t, err)
	assert.Equal(t, "hello there", preview)
}

func TestSendMessage_NonParticipantRejectedAndNothingStored(t *testing.T) {
	store, dir, roomID := seedRoom(t)
	dir.addMember(chat.Member{ID: 30, Email: "stranger@example.com", Name: "Stranger"})
	bus := &fakeBus{}
	uc := NewSendMessageUseCase(store, dir, bus, newFakeCache())

	_, err := uc.Execute(context.Background(), SendMessageInput{RoomID: roomID, SenderID: 30, Content: "let me in"})
	assert.ErrorIs(t, err, chat.ErrSendForbidden)

	msgs, err := store.ListMessagesByRoom(context.Background(), roomID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Empty(t, bus.published())
}

func TestSendMessage_InactiveParticipantRejected(t *testing.T) {
	store, dir, roomID := seedRoom(t)
	p, err := store.FindActiveParticipant(context.Background(), roomID, 10)
	require.NoError(t, err)
	p.Active = false
	require.NoError(t, store.UpsertParticipant(context.Background(), *p))

	uc := NewSendMessageUseCase(store, dir, &fakeBus{}, newFakeCache())
	_, err = uc.Execute(context.Background(), SendMessageInput{RoomID: roomID, SenderID: 10, Content: "hi"})
	assert.ErrorIs(t, err, chat.ErrSendForbidden)
}

func TestSendMessage_PublishFailureKeepsMessage(t *testing.T) {
	store, dir, roomID := seedRoom(t)
	bus := &fakeBus{failWith: errors.New("redis down")}
	uc := NewSendMessageUseCase(store, dir, bus, newFakeCache())

	_, err := uc.Execute(context.Background(), SendMessageInput{RoomID: roomID, SenderID: 10, Content: "still here"})
	assert.ErrorIs(t, err, chat.ErrPublishFailed)

	// The save happened before the publish attempt; history keeps the message.
	msgs, err := store.ListMessagesByRoom(context.Background(), roomID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "still here", msgs[0].Content)
}

func TestSendMessage_RoomNotFound(t *testing.T) {
	store, dir, _ := seedRoom(t)
	uc := NewSendMessageUseCase(store, dir, &fakeBus{}, newFakeCache())

	_, err := uc.Execute(context.Background(), SendMessageInput{RoomID: 999, SenderID: 10, Content: "hi"})
	assert.ErrorIs(t, err, chat.ErrRoomNotFound)
}

func TestSendMessage_UnknownSender(t *testing.T) {
	store, dir, roomID := seedRoom(t)
	uc := NewSendMessageUseCase(store, dir, &fakeBus{}, newFakeCache())

	_, err := uc.Execute(context.Background(), SendMessageInput{RoomID: roomID, SenderID: 77, Content: "hi"})
	assert.ErrorIs(t, err, chat.ErrMemberNotFound)
}

func TestSendMessage_BlankContentRejected(t *testing.T) {
	store, dir, roomID := seedRoom(t)
	bus := &fakeBus{}
	uc := NewSendMessageUseCase(store, dir, bus, newFakeCache())

	_, err := uc.Execute(context.Background(), SendMessageInput{RoomID: roomID, SenderID: 10, Content: "   "})
	require.Error(t, err)
	assert.Empty(t, bus.published())
}
