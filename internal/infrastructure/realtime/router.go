package realtime

import (
	"sync"
)

// Broadcaster is the delivery surface the fanout subscriber and the message
// pipeline write to. The gateway owns the single Router instance per process.
type Broadcaster interface {
	// SendToRoom delivers payload to every session subscribed to the room's
	// topic on this instance and reports how many sessions received it.
	SendToRoom(roomID int64, payload []byte) int

	// SendToUser delivers payload to the given member's private queue
	// (their current session), reporting whether a session was reachable.
	SendToUser(userKey string, payload []byte) bool
}

// Router coordinates websocket sessions and per-room topics on one instance.
// It keeps one active Connection per member while allowing efficient fanout to
// all sessions subscribed to a room.
type Router struct {
	mu           sync.RWMutex
	sessions     map[string]*Connection           // sessionID -> connection
	userSessions map[string]string                // userKey -> sessionID
	rooms        map[int64]map[string]*Connection // roomID -> sessionID -> connection
	sessionRooms map[string]map[int64]struct{}    // sessionID -> set of roomIDs
}

var _ Broadcaster = (*Router)(nil)

// NewRouter constructs an initialized Router.
func NewRouter() *Router {
	return &Router{
		sessions:     make(map[string]*Connection),
		userSessions: make(map[string]string),
		rooms:        make(map[int64]map[string]*Connection),
		sessionRooms: make(map[string]map[int64]struct{}),
	}
}

// Attach registers a connection for its member. If a previous session exists,
// it is removed and closed after the swap to enforce one active socket per
// member.
func (r *Router) Attach(conn *Connection) {
	var previous *Connection

	r.mu.Lock()
	if existingID, ok := r.userSessions[conn.UserKey]; ok {
		if existing := r.sessions[existingID]; existing != nil {
			previous = existing
			r.detachLocked(existingID)
		}
	}

	r.sessions[conn.ID] = conn
	r.userSessions[conn.UserKey] = conn.ID
	r.sessionRooms[conn.ID] = make(map[int64]struct{})
	r.mu.Unlock()

	conn.Start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes a connection if it is still tracked.
func (r *Router) Detach(conn *Connection) {
	r.mu.Lock()
	r.detachLocked(conn.ID)
	r.mu.Unlock()
}

// Join subscribes the connection to the room's topic.
func (r *Router) Join(roomID int64, conn *Connection) {
	r.mu.Lock()
	if _, ok := r.sessions[conn.ID]; !ok {
		r.mu.Unlock()
		return
	}

	room := r.rooms[roomID]
	if room == nil {
		room = make(map[string]*Connection)
		r.rooms[roomID] = room
	}
	room[conn.ID] = conn

	memberships := r.sessionRooms[conn.ID]
	if memberships == nil {
		memberships = make(map[int64]struct{})
		r.sessionRooms[conn.ID] = memberships
	}
	memberships[roomID] = struct{}{}
	r.mu.Unlock()
}

// Leave unsubscribes the connection from the room's topic.
func (r *Router) Leave(roomID int64, conn *Connection) {
	r.mu.Lock()
	r.leaveLocked(roomID, conn.ID)
	r.mu.Unlock()
}

// SendToRoom writes payload to every session subscribed to the room topic,
// including the sender's own session if subscribed.
func (r *Router) SendToRoom(roomID int64, payload []byte) int {
	r.mu.RLock()
	room := r.rooms[roomID]
	if len(room) == 0 {
		r.mu.RUnlock()
		return 0
	}

	delivered := 0
	for _, conn := range room {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	r.mu.RUnlock()
	return delivered
}

// SendToUser delivers payload to the current session of the given member.
func (r *Router) SendToUser(userKey string, payload []byte) bool {
	r.mu.RLock()
	sessionID, ok := r.userSessions[userKey]
	if !ok {
		r.mu.RUnlock()
		return false
	}
	conn := r.sessions[sessionID]
	r.mu.RUnlock()
	if conn == nil {
		return false
	}
	return conn.Send(payload) == nil
}

// Close terminates all tracked connections and clears router state.
func (r *Router) Close() {
	r.mu.Lock()
	sessions := make([]*Connection, 0, len(r.sessions))
	for _, conn := range r.sessions {
		sessions = append(sessions, conn)
	}
	r.sessions = make(map[string]*Connection)
	r.userSessions = make(map[string]string)
	r.rooms = make(map[int64]map[string]*Connection)
	r.sessionRooms = make(map[string]map[int64]struct{})
	r.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "router shutdown")
	}
}

func (r *Router) detachLocked(sessionID string) {
	conn, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)

	if current, ok := r.userSessions[conn.UserKey]; ok && current == sessionID {
		delete(r.userSessions, conn.UserKey)
	}

	for roomID := range r.sessionRooms[sessionID] {
		r.leaveLocked(roomID, sessionID)
	}
	delete(r.sessionRooms, sessionID)
}

func (r *Router) leaveLocked(roomID int64, sessionID string) {
	if sessionID == "" {
		return
	}
	room := r.rooms[roomID]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(r.rooms, roomID)
	}
	if memberships, ok := r.sessionRooms[sessionID]; ok {
		delete(memberships, roomID)
		if len(memberships) == 0 {
			delete(r.sessionRooms, sessionID)
		}
	}
}
