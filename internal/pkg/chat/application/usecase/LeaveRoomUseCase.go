package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	busport "market-chat/internal/infrastructure/bus/port"
	chat "market-chat/internal/pkg/chat/application/domain"
	repository "market-chat/internal/pkg/chat/persistence/repository/port"
)

// LeaveRoomInput identifies the room and the authenticated leaver.
type LeaveRoomInput struct {
	RoomID         int64
	RequesterEmail string
}

// LeaveRoomUseCase deactivates the caller's participation. When the last
// active participant leaves, the room is deleted and its messages and
// participant rows cascade with it.
type LeaveRoomUseCase struct {
	Repo      repository.ChatRepository
	Directory repository.DirectoryRepository
	Bus       busport.Bus
}

func NewLeaveRoomUseCase(repo repository.ChatRepository, dir repository.DirectoryRepository, bus busport.Bus) *LeaveRoomUseCase {
	return &LeaveRoomUseCase{Repo: repo, Directory: dir, Bus: bus}
}

func (uc *LeaveRoomUseCase) Execute(ctx context.Context, in LeaveRoomInput) error {
	if in.RequesterEmail == "" {
		return chat.ErrLoginRequired
	}

	member, err := uc.Directory.FindMemberByEmail(ctx, in.RequesterEmail)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if member == nil {
		return chat.ErrMemberNotFound
	}

	participant, err := uc.Repo.FindActiveParticipant(ctx, in.RoomID, member.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if participant == nil {
		return chat.ErrNotParticipant
	}

	// Notify the remaining participants before mutating state. Best-effort: a
	// publish failure never blocks the leave.
	uc.notifyLeave(ctx, in.RoomID, member.Name)

	participant.Leave(time.Now().UTC())
	if err := uc.Repo.UpsertParticipant(ctx, *participant); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	active, err := uc.Repo.HasActiveParticipants(ctx, in.RoomID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !active {
		if err := uc.Repo.DeleteRoom(ctx, in.RoomID); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		slog.Info("chat room deleted, last participant left", "room_id", in.RoomID)
	}
	return nil
}

func (uc *LeaveRoomUseCase) notifyLeave(ctx context.Context, roomID int64, leavingName string) {
	payload, err := chat.NewLeaveEnvelope(roomID, leavingName).Encode()
	if err != nil {
		slog.Error("encode leave notification failed", "room_id", roomID, "error", err)
		return
	}
	if err := uc.Bus.Publish(ctx, payload); err != nil {
		slog.Error("leave notification publish failed", "room_id", roomID, "error", err)
	}
}
