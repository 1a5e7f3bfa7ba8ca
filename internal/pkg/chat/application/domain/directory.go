package chat

// Member and Post are external entities owned by the member/post services.
// The chat core only reads them through the directory repository; mutation
// lives outside this module.

type Member struct {
	ID    int64  `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
}

type Post struct {
	ID       int64  `db:"id"`
	Title    string `db:"title"`
	AuthorID int64  `db:"member_id"`
}
