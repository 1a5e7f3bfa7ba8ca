package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "market-chat/internal/pkg/chat/application/domain"
)

// PgDirectoryRepository reads member and post rows owned by the surrounding
// marketplace services. The chat core never writes these tables.
type PgDirectoryRepository struct {
	pool *pgxpool.Pool
}

func NewPgDirectoryRepository(pool *pgxpool.Pool) *PgDirectoryRepository {
	return &PgDirectoryRepository{pool: pool}
}

func (r *PgDirectoryRepository) FindMemberByID(ctx context.Context, id int64) (*chat.Member, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgDirectoryRepository: nil pool")
	}
	var m chat.Member
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name FROM member WHERE id = $1`, id,
	).Scan(&m.ID, &m.Email, &m.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgDirectoryRepository) FindMemberByEmail(ctx context.Context, email string) (*chat.Member, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgDirectoryRepository: nil pool")
	}
	var m chat.Member
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name FROM member WHERE email = $1`, email,
	).Scan(&m.ID, &m.Email, &m.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgDirectoryRepository) FindPostByID(ctx context.Context, id int64) (*chat.Post, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgDirectoryRepository: nil pool")
	}
	var p chat.Post
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, member_id FROM post WHERE id = $1`, id,
	).Scan(&p.ID, &p.Title, &p.AuthorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
