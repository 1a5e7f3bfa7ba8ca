package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "market-chat/internal/pkg/chat/application/domain"
)

type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

func (r *PgChatRepository) SaveRoom(ctx context.Context, room chat.Room) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat_room (post_id, member_id, room_name, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id
	`, room.PostID, room.CreatorID, room.Name).Scan(&id)
	return id, err
}

func (r *PgChatRepository) FindRoomByID(ctx context.Context, roomID int64) (*chat.Room, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var room chat.Room
	err := r.pool.QueryRow(ctx, `
		SELECT id, post_id, member_id, room_name, created_at
		FROM chat_room
		WHERE id = $1
	`, roomID).Scan(&room.ID, &room.PostID, &room.CreatorID, &room.Name, &room.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *PgChatRepository) FindRoomsByPostID(ctx context.Context, postID int64) ([]chat.Room, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, post_id, member_id, room_name, created_at
		FROM chat_room
		WHERE post_id = $1
		ORDER BY id
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []chat.Room
	for rows.Next() {
		var room chat.Room
		if err := rows.Scan(&room.ID, &room.PostID, &room.CreatorID, &room.Name, &room.CreatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// DeleteRoom relies on ON DELETE CASCADE for message and room_participant rows.
func (r *PgChatRepository) DeleteRoom(ctx context.Context, roomID int64) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM chat_room WHERE id = $1`, roomID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO message (chat_room_id, member_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, m.RoomID, m.SenderID, m.Content, m.CreatedAt).Scan(&id)
	return id, err
}

func (r *PgChatRepository) ListMessagesByRoom(ctx context.Context, roomID int64) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.chat_room_id, m.member_id, mb.name, m.content, m.created_at
		FROM message m
		JOIN member mb ON mb.id = m.member_id
		WHERE m.chat_room_id = $1
		ORDER BY m.created_at ASC, m.id ASC
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.SenderName, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *PgChatRepository) FindLastMessageByRoom(ctx context.Context, roomID int64) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var m chat.Message
	err := r.pool.QueryRow(ctx, `
		SELECT m.id, m.chat_room_id, m.member_id, mb.name, m.content, m.created_at
		FROM message m
		JOIN member mb ON mb.id = m.member_id
		WHERE m.chat_room_id = $1
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT 1
	`, roomID).Scan(&m.ID, &m.RoomID, &m.SenderID, &m.SenderName, &m.Content, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgChatRepository) ExistsActiveParticipant(ctx context.Context, roomID, memberID int64) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgChatRepository: nil pool")
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM room_participant
			WHERE chat_room_id = $1 AND member_id = $2 AND is_active
		)
	`, roomID, memberID).Scan(&exists)
	return exists, err
}

func (r *PgChatRepository) ListActiveParticipants(ctx context.Context, roomID int64) ([]chat.Participant, error) {
	return r.listParticipants(ctx, roomID, true)
}

func (r *PgChatRepository) ListParticipants(ctx context.Context, roomID int64) ([]chat.Participant, error) {
	return r.listParticipants(ctx, roomID, false)
}

func (r *PgChatRepository) listParticipants(ctx context.Context, roomID int64, activeOnly bool) ([]chat.Participant, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	q := `
		SELECT id, chat_room_id, member_id, is_active, left_at
		FROM room_participant
		WHERE chat_room_id = $1
	`
	if activeOnly {
		q += ` AND is_active`
	}
	rows, err := r.pool.Query(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []chat.Participant
	for rows.Next() {
		var p chat.Participant
		if err := rows.Scan(&p.ID, &p.RoomID, &p.MemberID, &p.Active, &p.LeftAt); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

func (r *PgChatRepository) ListActiveParticipationsByMember(ctx context.Context, memberID int64) ([]chat.Participant, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.chat_room_id, p.member_id, p.is_active, p.left_at, cr.created_at
		FROM room_participant p
		JOIN chat_room cr ON cr.id = p.chat_room_id
		WHERE p.member_id = $1 AND p.is_active
		ORDER BY cr.created_at DESC
	`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []chat.Participant
	for rows.Next() {
		var p chat.Participant
		if err := rows.Scan(&p.ID, &p.RoomID, &p.MemberID, &p.Active, &p.LeftAt, &p.RoomCreatedAt); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

func (r *PgChatRepository) FindActiveParticipant(ctx context.Context, roomID, memberID int64) (*chat.Participant, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var p chat.Participant
	err := r.pool.QueryRow(ctx, `
		SELECT id, chat_room_id, member_id, is_active, left_at
		FROM room_participant
		WHERE chat_room_id = $1 AND member_id = $2 AND is_active
	`, roomID, memberID).Scan(&p.ID, &p.RoomID, &p.MemberID, &p.Active, &p.LeftAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgChatRepository) UpsertParticipant(ctx context.Context, p chat.Participant) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO room_participant (chat_room_id, member_id, is_active, left_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chat_room_id, member_id)
		DO UPDATE SET is_active = EXCLUDED.is_active,
		              left_at = EXCLUDED.left_at
	`, p.RoomID, p.MemberID, p.Active, p.LeftAt)
	return err
}

func (r *PgChatRepository) HasActiveParticipants(ctx context.Context, roomID int64) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgChatRepository: nil pool")
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM room_participant
			WHERE chat_room_id = $1 AND is_active
		)
	`, roomID).Scan(&exists)
	return exists, err
}
