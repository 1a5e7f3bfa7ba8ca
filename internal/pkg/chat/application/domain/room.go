package chat

import "time"

// Room is a persisted 1:1 negotiation channel tied to a marketplace post. Over
// its lifetime it holds exactly two members (the reuse rule in CreateRoom
// enforces at most one persistent room per post and member pair). The room
// owns its messages and participant rows; deleting the room cascades to both.
type Room struct {
	ID        int64     `db:"id"`
	PostID    int64     `db:"post_id"`
	CreatorID int64     `db:"member_id"`
	Name      string    `db:"room_name"`
	CreatedAt time.Time `db:"created_at"`
}

// NewRoom derives the display name from the post title and the creator's name,
// matching the "{title} - {name}" convention clients render.
func NewRoom(post Post, creator Member) Room {
	return Room{
		PostID:    post.ID,
		CreatorID: creator.ID,
		Name:      post.Title + " - " + creator.Name,
	}
}
