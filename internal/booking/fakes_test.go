package booking

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// memStore is an in-memory Store with the same contract as the SQL
// implementation: misses are sql.ErrNoRows and WithRoomLock serializes
// writers per room while leaving other rooms independent.
type memStore struct {
	mu    sync.Mutex
	seq   uint64
	recs  map[uint64]model.Reservation
	rooms map[uint64]*sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		recs:  make(map[uint64]model.Reservation),
		rooms: make(map[uint64]*sync.Mutex),
	}
}

func (s *memStore) roomLock(roomID uint64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.rooms[roomID]
	if !ok {
		l = &sync.Mutex{}
		s.rooms[roomID] = l
	}
	return l
}

func (s *memStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &rec, nil
}

func (s *memStore) ActiveByRoom(_ context.Context, roomID uint64) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reservation
	for _, rec := range s.recs {
		if rec.RoomID == roomID && rec.State.Active() {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memStore) ActiveAt(_ context.Context, roomID uint64, at time.Time) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reservation
	for _, rec := range s.recs {
		if rec.RoomID == roomID && rec.State.Active() && rec.Covers(at) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memStore) UpdateState(_ context.Context, id uint64, state model.State, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return sql.ErrNoRows
	}
	rec.State = state
	rec.Description = description
	s.recs[id] = rec
	return nil
}

func (s *memStore) WithRoomLock(_ context.Context, roomID uint64, fn func(tx Tx) error) error {
	l := s.roomLock(roomID)
	l.Lock()
	defer l.Unlock()
	return fn(&memTx{store: s, roomID: roomID})
}

type memTx struct {
	store  *memStore
	roomID uint64
}

func (t *memTx) ActiveByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error) {
	return t.store.ActiveByRoom(ctx, roomID)
}

func (t *memTx) Insert(_ context.Context, rec *model.Reservation) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.seq++
	rec.ID = t.store.seq
	t.store.recs[rec.ID] = *rec
	return nil
}

type memRooms map[uint64]model.Room

func (m memRooms) GetByID(_ context.Context, id uint64) (*model.Room, error) {
	r, ok := m[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

type memCourses map[uint64]model.Course

func (m memCourses) GetByID(_ context.Context, id uint64) (*model.Course, error) {
	c, ok := m[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

type memUsers map[uint64]model.User

func (m memUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

// Fixture IDs shared across the engine tests.
const (
	roomMain  uint64 = 1
	roomLab   uint64 = 2
	courseGo  uint64 = 10
	adminUser uint64 = 1
	aliceUser uint64 = 2
	bobUser   uint64 = 3
)

func newTestEngine() (*Engine, *memStore) {
	store := newMemStore()
	rooms := memRooms{
		roomMain: {ID: roomMain, Name: "Main Hall", Capacity: 120, Floor: 0},
		roomLab:  {ID: roomLab, Name: "Lab B", Capacity: 24, Floor: 2},
	}
	courses := memCourses{
		courseGo: {ID: courseGo, Name: "Distributed Systems", Instructor: "Rossi"},
	}
	users := memUsers{
		adminUser: {ID: adminUser, Email: "admin@example.com", Role: model.RoleAdmin},
		aliceUser: {ID: aliceUser, Email: "alice@example.com", Role: model.RoleUser},
		bobUser:   {ID: bobUser, Email: "bob@example.com", Role: model.RoleUser},
	}
	return New(store, rooms, courses, users), store
}

// at builds a fixed UTC instant on 2026-03-02; tests express intervals as
// hours of that day.
func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}
