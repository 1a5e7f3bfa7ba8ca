package usecase

import (
	"context"
	"fmt"

	chat "market-chat/internal/pkg/chat/application/domain"
	repository "market-chat/internal/pkg/chat/persistence/repository/port"
)

// JoinRoomInput validates a request to attach a live session to a room topic.
type JoinRoomInput struct {
	RoomID   int64
	MemberID int64
}

// JoinRoomUseCase ensures the member is an active participant before the
// gateway subscribes their session to the room topic.
type JoinRoomUseCase struct {
	Repo repository.ChatRepository
}

func NewJoinRoomUseCase(repo repository.ChatRepository) *JoinRoomUseCase {
	return &JoinRoomUseCase{Repo: repo}
}

func (uc *JoinRoomUseCase) Execute(ctx context.Context, in JoinRoomInput) error {
	room, err := uc.Repo.FindRoomByID(ctx, in.RoomID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if room == nil {
		return chat.ErrRoomNotFound
	}

	ok, err := uc.Repo.ExistsActiveParticipant(ctx, in.RoomID, in.MemberID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return chat.ErrNotParticipant
	}
	return nil
}
