package chat

// ServiceError is a domain failure with a stable machine-readable code and a
// human message. The code's numeric prefix doubles as the HTTP status class
// ("404-3" -> 404).
type ServiceError struct {
	Code string
	Msg  string
}

func (e *ServiceError) Error() string {
	return e.Code + " : " + e.Msg
}

// Sentinel errors for the chat core. Compared with errors.Is, so they must be
// returned as-is or wrapped with %w.
var (
	ErrPostNotFound   = &ServiceError{Code: "404-1", Msg: "post not found"}
	ErrMemberNotFound = &ServiceError{Code: "404-3", Msg: "member not found"}
	ErrRoomNotFound   = &ServiceError{Code: "404-4", Msg: "chat room not found"}
	// ErrNotParticipant signals the caller is not an active participant of the
	// room (distinct from the room itself being missing).
	ErrNotParticipant = &ServiceError{Code: "404-5", Msg: "not an active participant of the chat room"}

	ErrHistoryForbidden = &ServiceError{Code: "403-1", Msg: "only participants can read chat room messages"}
	ErrSendForbidden    = &ServiceError{Code: "403-2", Msg: "only participants can send messages"}

	ErrLoginRequired = &ServiceError{Code: "400-1", Msg: "login required"}
	ErrPublishFailed = &ServiceError{Code: "400-2", Msg: "message publish failed"}
	// ErrSelfChat rejects opening a room on one's own post: a negotiation room
	// needs two distinct members.
	ErrSelfChat = &ServiceError{Code: "400-3", Msg: "cannot open a chat room with yourself"}
)
