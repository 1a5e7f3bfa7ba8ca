package usecase

import (
	"context"
	"fmt"

	chat "market-chat/internal/pkg/chat/application/domain"
	repository "market-chat/internal/pkg/chat/persistence/repository/port"
)

// GetMessagesInput asks for a room's history on behalf of a member.
type GetMessagesInput struct {
	RoomID         int64
	RequesterEmail string
}

// MessageView is the history projection handed to clients: denormalized
// sender name plus the ids the client needs to render and reply.
type MessageView struct {
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
	SenderID   int64  `json:"senderId"`
	ChatRoomID int64  `json:"chatRoomId"`
}

// GetMessagesUseCase returns a room's messages in creation order, restricted
// to active participants.
type GetMessagesUseCase struct {
	Repo      repository.ChatRepository
	Directory repository.DirectoryRepository
}

func NewGetMessagesUseCase(repo repository.ChatRepository, dir repository.DirectoryRepository) *GetMessagesUseCase {
	return &GetMessagesUseCase{Repo: repo, Directory: dir}
}

func (uc *GetMessagesUseCase) Execute(ctx context.Context, in GetMessagesInput) ([]MessageView, error) {
	member, err := uc.Directory.FindMemberByEmail(ctx, in.RequesterEmail)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if member == nil {
		return nil, chat.ErrMemberNotFound
	}

	room, err := uc.Repo.FindRoomByID(ctx, in.RoomID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if room == nil {
		return nil, chat.ErrRoomNotFound
	}

	isParticipant, err := uc.Repo.ExistsActiveParticipant(ctx, in.RoomID, member.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !isParticipant {
		return nil, chat.ErrHistoryForbidden
	}

	msgs, err := uc.Repo.ListMessagesByRoom(ctx, in.RoomID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	views := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, MessageView{
			SenderName: m.SenderName,
			Content:    m.Content,
			SenderID:   m.SenderID,
			ChatRoomID: m.RoomID,
		})
	}
	return views, nil
}
