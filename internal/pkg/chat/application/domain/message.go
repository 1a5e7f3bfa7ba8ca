package chat

import (
	"errors"
	"strings"
	"time"
)

// Message is an immutable log entry owned by a room. SenderName is
// denormalized from the member row on reads for history views.
type Message struct {
	ID         int64     `db:"id"`
	RoomID     int64     `db:"chat_room_id"`
	SenderID   int64     `db:"member_id"`
	SenderName string    `db:"sender_name"`
	Content    string    `db:"content"`
	CreatedAt  time.Time `db:"created_at"`
}

// NewMessage validates and normalizes a message ready to persist.
func NewMessage(roomID, senderID int64, content string) (*Message, error) {
	if roomID == 0 || senderID == 0 {
		return nil, errors.New("room id and sender id are required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("message content is empty")
	}
	return &Message{
		RoomID:    roomID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}, nil
}
