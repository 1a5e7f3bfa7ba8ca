package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	busport "market-chat/internal/infrastructure/bus/port"
	cacheport "market-chat/internal/infrastructure/cache/port"
	chat "market-chat/internal/pkg/chat/application/domain"
)

// fakeStore is an in-memory ChatRepository for use-case tests.
type fakeStore struct {
	mu         sync.Mutex
	rooms      map[int64]chat.Room
	parts      map[int64]map[int64]chat.Participant // roomID -> memberID -> row
	msgs       map[int64][]chat.Message
	names      map[int64]string // memberID -> display name, for history joins
	nextRoomID int64
	nextMsgID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms: make(map[int64]chat.Room),
		parts: make(map[int64]map[int64]chat.Participant),
		msgs:  make(map[int64][]chat.Message),
		names: make(map[int64]string),
	}
}

func (s *fakeStore) SaveRoom(_ context.Context, r chat.Room) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRoomID++
	r.ID = s.nextRoomID
	r.CreatedAt = time.Now().UTC()
	s.rooms[r.ID] = r
	return r.ID, nil
}

func (s *fakeStore) FindRoomByID(_ context.Context, roomID int64) (*chat.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[roomID]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s *fakeStore) FindRoomsByPostID(_ context.Context, postID int64) ([]chat.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rooms []chat.Room
	for _, r := range s.rooms {
		if r.PostID == postID {
			rooms = append(rooms, r)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (s *fakeStore) DeleteRoom(_ context.Context, roomID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
	delete(s.parts, roomID)
	delete(s.msgs, roomID)
	return nil
}

func (s *fakeStore) SaveMessage(_ context.Context, m chat.Message) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMsgID++
	m.ID = s.nextMsgID
	s.msgs[m.RoomID] = append(s.msgs[m.RoomID], m)
	return m.ID, nil
}

func (s *fakeStore) ListMessagesByRoom(_ context.Context, roomID int64) ([]chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := append([]chat.Message(nil), s.msgs[roomID]...)
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	for i := range msgs {
		msgs[i].SenderName = s.names[msgs[i].SenderID]
	}
	return msgs, nil
}

func (s *fakeStore) FindLastMessageByRoom(ctx context.Context, roomID int64) (*chat.Message, error) {
	msgs, _ := s.ListMessagesByRoom(ctx, roomID)
	if len(msgs) == 0 {
		return nil, nil
	}
	last := msgs[len(msgs)-1]
	return &last, nil
}

func (s *fakeStore) ExistsActiveParticipant(_ context.Context, roomID, memberID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parts[roomID][memberID]
	return ok && p.Active, nil
}

func (s *fakeStore) ListActiveParticipants(_ context.Context, roomID int64) ([]chat.Participant, error) {
	return s.list(roomID, true), nil
}

func (s *fakeStore) ListParticipants(_ context.Context, roomID int64) ([]chat.Participant, error) {
	return s.list(roomID, false), nil
}

func (s *fakeStore) list(roomID int64, activeOnly bool) []chat.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	var parts []chat.Participant
	for _, p := range s.parts[roomID] {
		if activeOnly && !p.Active {
			continue
		}
		parts = append(parts, p)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].MemberID < parts[j].MemberID })
	return parts
}

func (s *fakeStore) ListActiveParticipationsByMember(_ context.Context, memberID int64) ([]chat.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var parts []chat.Participant
	for roomID, members := range s.parts {
		if p, ok := members[memberID]; ok && p.Active {
			p.RoomCreatedAt = s.rooms[roomID].CreatedAt
			parts = append(parts, p)
		}
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].RoomCreatedAt.After(parts[j].RoomCreatedAt) })
	return parts, nil
}

func (s *fakeStore) FindActiveParticipant(_ context.Context, roomID, memberID int64) (*chat.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.parts[roomID][memberID]; ok && p.Active {
		return &p, nil
	}
	return nil, nil
}

func (s *fakeStore) UpsertParticipant(_ context.Context, p chat.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.parts[p.RoomID] == nil {
		s.parts[p.RoomID] = make(map[int64]chat.Participant)
	}
	s.parts[p.RoomID][p.MemberID] = p
	return nil
}

func (s *fakeStore) HasActiveParticipants(_ context.Context, roomID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.parts[roomID] {
		if p.Active {
			return true, nil
		}
	}
	return false, nil
}

// fakeDirectory is an in-memory member/post lookup.
type fakeDirectory struct {
	members map[int64]chat.Member
	posts   map[int64]chat.Post
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		members: make(map[int64]chat.Member),
		posts:   make(map[int64]chat.Post),
	}
}

func (d *fakeDirectory) addMember(m chat.Member) { d.members[m.ID] = m }
func (d *fakeDirectory) addPost(p chat.Post)     { d.posts[p.ID] = p }

func (d *fakeDirectory) FindMemberByID(_ context.Context, id int64) (*chat.Member, error) {
	if m, ok := d.members[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (d *fakeDirectory) FindMemberByEmail(_ context.Context, email string) (*chat.Member, error) {
	for _, m := range d.members {
		if m.Email == email {
			return &m, nil
		}
	}
	return nil, nil
}

func (d *fakeDirectory) FindPostByID(_ context.Context, id int64) (*chat.Post, error) {
	if p, ok := d.posts[id]; ok {
		return &p, nil
	}
	return nil, nil
}

// fakeBus records published payloads and can be told to fail.
type fakeBus struct {
	mu       sync.Mutex
	payloads [][]byte
	failWith error
}

func (b *fakeBus) Publish(_ context.Context, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWith != nil {
		return b.failWith
	}
	b.payloads = append(b.payloads, append([]byte(nil), payload...))
	return nil
}

func (b *fakeBus) Subscribe(context.Context, busport.Handler) error { return nil }
func (b *fakeBus) Close() error                                     { return nil }

func (b *fakeBus) published() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]byte(nil), b.payloads...)
}

// fakeCache is a map-backed port.Cache.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string]string)} }

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return "", cacheport.ErrMiss
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Close() error { return nil }

// drop evicts a key, simulating TTL expiry between requests.
func (c *fakeCache) drop(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}
