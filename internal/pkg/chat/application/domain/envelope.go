package chat

import (
	"encoding/json"
	"fmt"
)

// MessageKind is the envelope's messageType discriminator.
type MessageKind string

const (
	KindMessage           MessageKind = "MESSAGE"
	KindError             MessageKind = "ERROR"
	KindLeaveNotification MessageKind = "LEAVE_NOTIFICATION"
)

// System sender used on envelopes not authored by a member.
const (
	SystemSenderID    int64 = -1
	SystemSenderName        = "System"
	SystemSenderEmail       = "system@market-chat.local"
)

// Envelope is the wire-stable message format shared by the fanout channel and
// the live transport. Field names are part of the client contract; do not
// rename them.
type Envelope struct {
	SenderID    int64       `json:"senderId"`
	ChatRoomID  int64       `json:"chatRoomId"`
	SenderName  string      `json:"senderName"`
	SenderEmail string      `json:"senderEmail"`
	Content     string      `json:"content"`
	MessageType MessageKind `json:"messageType"`
}

// NewMessageEnvelope wraps a persisted message for transport.
func NewMessageEnvelope(m Message, sender Member) Envelope {
	return Envelope{
		SenderID:    sender.ID,
		ChatRoomID:  m.RoomID,
		SenderName:  sender.Name,
		SenderEmail: sender.Email,
		Content:     m.Content,
		MessageType: KindMessage,
	}
}

// NewLeaveEnvelope announces a member leaving the room. The sender is the
// system, not the leaving member, so clients render it as a notice.
func NewLeaveEnvelope(roomID int64, leavingName string) Envelope {
	return Envelope{
		SenderID:    SystemSenderID,
		ChatRoomID:  roomID,
		SenderName:  SystemSenderName,
		SenderEmail: SystemSenderEmail,
		Content:     fmt.Sprintf("%s has left the chat room.", leavingName),
		MessageType: KindLeaveNotification,
	}
}

// NewErrorEnvelope carries a pipeline failure back to the originating sender's
// private queue only; it is never broadcast to a room.
func NewErrorEnvelope(content string) Envelope {
	return Envelope{
		SenderID:    SystemSenderID,
		ChatRoomID:  -1,
		SenderName:  SystemSenderName,
		SenderEmail: SystemSenderEmail,
		Content:     content,
		MessageType: KindError,
	}
}

// Encode serializes the envelope for the fanout channel.
func (e Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEnvelope parses a fanout payload back into an Envelope.
func DecodeEnvelope(payload []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(payload, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return e, nil
}
