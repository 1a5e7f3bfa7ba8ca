package chat

import "time"

// Participant is the membership record of one member in one room. A
// (room, member) pair has at most one row; Active=true implies LeftAt=nil.
// Rows are never physically deleted except via room cascade.
type Participant struct {
	ID       int64      `db:"id"`
	RoomID   int64      `db:"chat_room_id"`
	MemberID int64      `db:"member_id"`
	Active   bool       `db:"is_active"`
	LeftAt   *time.Time `db:"left_at"`
	// RoomCreatedAt is denormalized from the owning room for ordering the
	// member's room list; populated on reads only.
	RoomCreatedAt time.Time `db:"room_created_at"`
}

// Leave marks the participant inactive as of now.
func (p *Participant) Leave(now time.Time) {
	p.Active = false
	p.LeftAt = &now
}

// Activate reinstates the participant (room reuse and rejoin).
func (p *Participant) Activate() {
	p.Active = true
	p.LeftAt = nil
}
