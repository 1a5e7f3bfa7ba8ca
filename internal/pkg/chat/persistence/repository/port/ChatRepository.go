package repository

import (
	"context"

	chat "market-chat/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for rooms, messages, and the
// participant store. Absence is reported as (nil, nil) or (false, nil), never
// as an error; callers decide whether absence is a failure.
type ChatRepository interface {
	// Rooms
	SaveRoom(ctx context.Context, r chat.Room) (int64, error)
	FindRoomByID(ctx context.Context, roomID int64) (*chat.Room, error)
	FindRoomsByPostID(ctx context.Context, postID int64) ([]chat.Room, error)
	// DeleteRoom cascades to the room's messages and participant rows.
	DeleteRoom(ctx context.Context, roomID int64) error

	// Messages
	SaveMessage(ctx context.Context, m chat.Message) (int64, error)
	// ListMessagesByRoom returns the room's messages ordered by creation time
	// ascending, with sender names resolved.
	ListMessagesByRoom(ctx context.Context, roomID int64) ([]chat.Message, error)
	FindLastMessageByRoom(ctx context.Context, roomID int64) (*chat.Message, error)

	// Participant store
	ExistsActiveParticipant(ctx context.Context, roomID, memberID int64) (bool, error)
	ListActiveParticipants(ctx context.Context, roomID int64) ([]chat.Participant, error)
	// ListParticipants returns every participant row of the room, active or not.
	ListParticipants(ctx context.Context, roomID int64) ([]chat.Participant, error)
	// ListActiveParticipationsByMember is ordered by room creation time
	// descending.
	ListActiveParticipationsByMember(ctx context.Context, memberID int64) ([]chat.Participant, error)
	FindActiveParticipant(ctx context.Context, roomID, memberID int64) (*chat.Participant, error)
	// UpsertParticipant inserts or updates the (room, member) row.
	UpsertParticipant(ctx context.Context, p chat.Participant) error
	HasActiveParticipants(ctx context.Context, roomID int64) (bool, error)
}
