package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	cacheport "market-chat/internal/infrastructure/cache/port"
	chat "market-chat/internal/pkg/chat/application/domain"
	repository "market-chat/internal/pkg/chat/persistence/repository/port"
)

// defaultPreview is shown for rooms with no messages yet.
const defaultPreview = "Start the conversation."

// ListMyRoomsInput identifies the caller.
type ListMyRoomsInput struct {
	RequesterEmail string
}

// RoomView is one entry of the caller's room list.
type RoomView struct {
	ID          int64  `json:"id"`
	RoomName    string `json:"roomName"`
	PostID      int64  `json:"postId"`
	LastMessage string `json:"lastMessage"`
}

// ListMyRoomsUseCase returns the caller's active rooms, newest room first,
// each with a last-message preview. Previews are served from the cache when
// warm and refreshed from the store on a miss.
type ListMyRoomsUseCase struct {
	Repo      repository.ChatRepository
	Directory repository.DirectoryRepository
	Cache     cacheport.Cache
}

func NewListMyRoomsUseCase(repo repository.ChatRepository, dir repository.DirectoryRepository, cache cacheport.Cache) *ListMyRoomsUseCase {
	return &ListMyRoomsUseCase{Repo: repo, Directory: dir, Cache: cache}
}

func (uc *ListMyRoomsUseCase) Execute(ctx context.Context, in ListMyRoomsInput) ([]RoomView, error) {
	if in.RequesterEmail == "" {
		return nil, chat.ErrLoginRequired
	}

	member, err := uc.Directory.FindMemberByEmail(ctx, in.RequesterEmail)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if member == nil {
		return nil, chat.ErrMemberNotFound
	}

	participations, err := uc.Repo.ListActiveParticipationsByMember(ctx, member.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	views := make([]RoomView, 0, len(participations))
	for _, p := range participations {
		room, err := uc.Repo.FindRoomByID(ctx, p.RoomID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if room == nil {
			// Room deleted between the participation scan and this read.
			continue
		}

		views = append(views, RoomView{
			ID:          room.ID,
			RoomName:    room.Name,
			PostID:      room.PostID,
			LastMessage: uc.lastMessagePreview(ctx, room.ID),
		})
	}
	return views, nil
}

func (uc *ListMyRoomsUseCase) lastMessagePreview(ctx context.Context, roomID int64) string {
	if uc.Cache != nil {
		preview, err := uc.Cache.Get(ctx, previewKey(roomID))
		if err == nil && preview != "" {
			return preview
		}
		if err != nil && !errors.Is(err, cacheport.ErrMiss) {
			slog.Warn("room preview cache read failed", "room_id", roomID, "error", err)
		}
	}

	last, err := uc.Repo.FindLastMessageByRoom(ctx, roomID)
	if err != nil {
		slog.Warn("last message lookup failed", "room_id", roomID, "error", err)
		return defaultPreview
	}
	if last == nil {
		return defaultPreview
	}

	if uc.Cache != nil {
		if err := uc.Cache.Set(ctx, previewKey(roomID), last.Content, previewTTL); err != nil {
			slog.Warn("room preview cache refresh failed", "room_id", roomID, "error", err)
		}
	}
	return last.Content
}
