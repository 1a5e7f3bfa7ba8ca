package usecase

import (
	"context"
	"fmt"
	"log/slog"

	chat "market-chat/internal/pkg/chat/application/domain"
	repository "market-chat/internal/pkg/chat/persistence/repository/port"
)

// CreateRoomInput identifies the post and the authenticated requester.
type CreateRoomInput struct {
	PostID         int64
	RequesterEmail string
}

// CreateRoomUseCase opens (or reuses) the 1:1 room between the requester and
// the post's author.
//
// Reuse rule: among all rooms attached to the post, a room whose full
// participant set, active and inactive, is exactly {requester, author} is the
// canonical room for this pair. It is reactivated and returned instead of
// creating a duplicate, so the pair keeps at most one persistent room per post
// even after both sides left.
//
// Known gap: the scan-then-insert is not atomic. Two concurrent calls for the
// same (post, pair) can both miss and create two rooms. Acceptable for a
// best-effort chat surface; hardening requires a uniqueness constraint on the
// (post, sorted pair) or an advisory lock.
type CreateRoomUseCase struct {
	Repo      repository.ChatRepository
	Directory repository.DirectoryRepository
}

func NewCreateRoomUseCase(repo repository.ChatRepository, dir repository.DirectoryRepository) *CreateRoomUseCase {
	return &CreateRoomUseCase{Repo: repo, Directory: dir}
}

// Execute returns the id of the new or reactivated room.
func (uc *CreateRoomUseCase) Execute(ctx context.Context, in CreateRoomInput) (int64, error) {
	if in.RequesterEmail == "" {
		return 0, chat.ErrLoginRequired
	}

	requester, err := uc.Directory.FindMemberByEmail(ctx, in.RequesterEmail)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if requester == nil {
		return 0, chat.ErrMemberNotFound
	}

	post, err := uc.Directory.FindPostByID(ctx, in.PostID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if post == nil {
		return 0, chat.ErrPostNotFound
	}
	if requester.ID == post.AuthorID {
		// The two participant upserts would collapse into one row, leaving a
		// room the pair-reuse scan can never match.
		return 0, chat.ErrSelfChat
	}

	if roomID, found, err := uc.findExistingRoom(ctx, in.PostID, requester.ID, post.AuthorID); err != nil {
		return 0, err
	} else if found {
		slog.Debug("reusing chat room", "room_id", roomID, "post_id", in.PostID)
		return roomID, nil
	}

	room := chat.NewRoom(*post, *requester)
	roomID, err := uc.Repo.SaveRoom(ctx, room)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Exactly two participants: the requester and the post author.
	for _, memberID := range []int64{requester.ID, post.AuthorID} {
		p := chat.Participant{RoomID: roomID, MemberID: memberID, Active: true}
		if err := uc.Repo.UpsertParticipant(ctx, p); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	slog.Info("chat room created", "room_id", roomID, "post_id", in.PostID, "requester_id", requester.ID)
	return roomID, nil
}

func (uc *CreateRoomUseCase) findExistingRoom(ctx context.Context, postID, requesterID, authorID int64) (int64, bool, error) {
	rooms, err := uc.Repo.FindRoomsByPostID(ctx, postID)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	for _, room := range rooms {
		parts, err := uc.Repo.ListParticipants(ctx, room.ID)
		if err != nil {
			return 0, false, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if len(parts) != 2 {
			continue
		}
		hasRequester, hasAuthor := false, false
		for _, p := range parts {
			if p.MemberID == requesterID {
				hasRequester = true
			}
			if p.MemberID == authorID {
				hasAuthor = true
			}
		}
		if !hasRequester || !hasAuthor {
			continue
		}

		// Canonical room for this pair: reactivate both rows for a clean
		// re-entry.
		for _, p := range parts {
			p.Activate()
			if err := uc.Repo.UpsertParticipant(ctx, p); err != nil {
				return 0, false, fmt.Errorf("%w: %v", ErrPersistence, err)
			}
		}
		return room.ID, true, nil
	}
	return 0, false, nil
}
