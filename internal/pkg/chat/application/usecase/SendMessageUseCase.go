package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	busport "market-chat/internal/infrastructure/bus/port"
	cacheport "market-chat/internal/infrastructure/cache/port"
	chat "market-chat/internal/pkg/chat/application/domain"
	repository "market-chat/internal/pkg/chat/persistence/repository/port"
)

// Last-message previews for the room list, keyed per room.
const (
	previewKeyPrefix = "chat:lastmsg:"
	previewTTL       = time.Hour
)

func previewKey(roomID int64) string {
	return fmt.Sprintf("%s%d", previewKeyPrefix, roomID)
}

// SendMessageInput carries one inbound chat submission.
type SendMessageInput struct {
	RoomID   int64
	SenderID int64
	Content  string
}

// SendMessageUseCase is the message pipeline: authorize, persist, then hand
// the envelope to the fanout bus.
//
// Authorization runs before persistence, so a non-participant's message is
// never stored and never appears in history. A publish failure after a
// successful save is surfaced as ErrPublishFailed to the original sender only;
// the persisted message stays retrievable via history.
type SendMessageUseCase struct {
	Repo      repository.ChatRepository
	Directory repository.DirectoryRepository
	Bus       busport.Bus
	Cache     cacheport.Cache
}

func NewSendMessageUseCase(repo repository.ChatRepository, dir repository.DirectoryRepository, bus busport.Bus, cache cacheport.Cache) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Directory: dir, Bus: bus, Cache: cache}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	sender, err := uc.Directory.FindMemberByID(ctx, in.SenderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if sender == nil {
		return nil, chat.ErrMemberNotFound
	}

	room, err := uc.Repo.FindRoomByID(ctx, in.RoomID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if room == nil {
		return nil, chat.ErrRoomNotFound
	}

	isParticipant, err := uc.Repo.ExistsActiveParticipant(ctx, in.RoomID, in.SenderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !isParticipant {
		return nil, chat.ErrSendForbidden
	}

	msg, err := chat.NewMessage(in.RoomID, in.SenderID, in.Content)
	if err != nil {
		return nil, err
	}

	id, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	msg.ID = id
	msg.SenderName = sender.Name

	if uc.Cache != nil {
		if err := uc.Cache.Set(ctx, previewKey(in.RoomID), msg.Content, previewTTL); err != nil {
			slog.Warn("room preview cache refresh failed", "room_id", in.RoomID, "error", err)
		}
	}

	payload, err := chat.NewMessageEnvelope(*msg, *sender).Encode()
	if err != nil {
		return nil, fmt.Errorf("encode message envelope: %w", err)
	}
	if err := uc.Bus.Publish(ctx, payload); err != nil {
		slog.Error("message publish failed", "room_id", in.RoomID, "message_id", msg.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", chat.ErrPublishFailed, err)
	}

	return msg, nil
}
