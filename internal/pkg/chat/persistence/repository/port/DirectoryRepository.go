package repository

import (
	"context"

	chat "market-chat/internal/pkg/chat/application/domain"
)

// DirectoryRepository is the read-only view onto the member and post services
// the chat core collaborates with. Absence is (nil, nil).
type DirectoryRepository interface {
	FindMemberByID(ctx context.Context, id int64) (*chat.Member, error)
	FindMemberByEmail(ctx context.Context, email string) (*chat.Member, error)
	FindPostByID(ctx context.Context, id int64) (*chat.Post, error)
}
