package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "market-chat/internal/pkg/chat/application/domain"
)

func seedPair(t *testing.T) (*fakeStore, *fakeDirectory) {
	t.Helper()
	store := newFakeStore()
	dir := newFakeDirectory()
	dir.addMember(chat.Member{ID: 10, Email: "buyer@example.com", Name: "Buyer"})
	dir.addMember(chat.Member{ID: 20, Email: "seller@example.com", Name: "Seller"})
	dir.addPost(chat.Post{ID: 1, Title: "Vintage lamp", AuthorID: 20})
	store.names[10] = "Buyer"
	store.names[20] = "Seller"
	return store, dir
}

func TestCreateRoom_NewRoomWithBothParticipants(t *testing.T) {
	store, dir := seedPair(t)
	uc := NewCreateRoomUseCase(store, dir)

	roomID, err := uc.Execute(context.Background(), CreateRoomInput{PostID: 1, RequesterEmail: "buyer@example.com"})
	require.NoError(t, err)
	require.NotZero(t, roomID)

	room, err := store.FindRoomByID(context.Background(), roomID)
	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, "Vintage lamp - Buyer", room.Name)
	assert.Equal(t, int64(1), room.PostID)
	assert.Equal(t, int64(10), room.CreatorID)

	parts, err := store.ListActiveParticipants(context.Background(), roomID)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, int64(10), parts[0].MemberID)
	assert.Equal(t, int64(20), parts[1].MemberID)
}

func TestCreateRoom_SecondCallReusesRoom(t *testing.T) {
	store, dir := seedPair(t)
	uc := NewCreateRoomUseCase(store, dir)

	first, err := uc.Execute(context.Background(), CreateRoomInput{PostID: 1, RequesterEmail: "buyer@example.com"})
	require.NoError(t, err)

	second, err := uc.Execute(context.Background(), CreateRoomInput{PostID: 1, RequesterEmail: "buyer@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	rooms, err := store.FindRoomsByPostID(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestCreateRoom_ReactivatesLeftParticipant(t *testing.T) {
	store, dir := seedPair(t)
	uc := NewCreateRoomUseCase(store, dir)

	roomID, err := uc.Execute(context.Background(), CreateRoomInput{PostID: 1, RequesterEmail: "buyer@example.com"})
	require.NoError(t, err)

	// Deactivate the buyer directly; the seller stays so the room survives.
	p, err := store.FindActiveParticipant(context.Background(), roomID, 10)
	require.NoError(t, err)
	require.NotNil(t, p)
	p.Active = false
	require.NoError(t, store.UpsertParticipant(context.Background(), *p))

	again, err := uc.Execute(context.Background(), CreateRoomInput{PostID: 1, RequesterEmail: "buyer@example.com"})
	require.NoError(t, err)
	assert.Equal(t, roomID, again)

	// Reuse reactivates the inactive row.
	parts, err := store.ListActiveParticipants(context.Background(), roomID)
	require.NoError(t, err)
	assert.Len(t, parts, 2)
}

func TestCreateRoom_AuthorGetsOwnRoomPerBuyer(t *testing.T) {
	store, dir := seedPair(t)
	dir.addMember(chat.Member{ID: 30, Email: "other@example.com", Name: "Other"})
	uc := NewCreateRoomUseCase(store, dir)

	buyerRoom, err := uc.Execute(context.Background(), CreateRoomInput{PostID: 1, RequesterEmail: "buyer@example.com"})
	require.NoError(t, err)

	otherRoom, err := uc.Execute(context.Background(), CreateRoomInput{PostID: 1, RequesterEmail: "other@example.com"})
	require.NoError(t, err)
	assert.NotEqual(t, buyerRoom, otherRoom)
}

func TestCreateRoom_OwnPostRejected(t *testing.T) {
	store, dir := seedPair(t)
	uc := NewCreateRoomUseCase(store, dir)

	_, err := uc.Execute(context.Background(), CreateRoomInput{PostID: 1, RequesterEmail: "seller@example.com"})
	assert.ErrorIs(t, err, chat.ErrSelfChat)

	rooms, err := store.FindRoomsByPostID(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestCreateRoom_UnknownPost(t *testing.T) {
	store, dir := seedPair(t)
	uc := NewCreateRoomUseCase(store, dir)

	_, err := uc.Execute(context.Background(), CreateRoomInput{PostID: 99, RequesterEmail: "buyer@example.com"})
	assert.ErrorIs(t, err, chat.ErrPostNotFound)
}

func TestCreateRoom_UnknownMember(t *testing.T) {
	store, dir := seedPair(t)
	uc := NewCreateRoomUseCase(store, dir)

	_, err := uc.Execute(context.Background(), CreateRoomInput{PostID: 1, RequesterEmail: "ghost@example.com"})
	assert.ErrorIs(t, err, chat.ErrMemberNotFound)
}

func TestCreateRoom_BlankEmail(t *testing.T) {
	store, dir := seedPair(t)
	uc := NewCreateRoomUseCase(store, dir)

	_, err := uc.Execute(context.Background(), CreateRoomInput{PostID: 1})
	assert.ErrorIs(t, err, chat.ErrLoginRequired)
}
