package queue

import (
	"context"
	"sync"

	"github.com/R4v3ns/back-end-Proyecto/internal/songs"
)

// memStore is an in-memory Store. It hands out copies so a handler that
// mutates a queue but fails before Save leaves the stored state untouched,
// the same guarantee the SQL store gives.
type memStore struct {
	mu     sync.Mutex
	queues map[string]*Queue

	getErr  error
	saveErr error
	saves   int
}

func newMemStore() *memStore {
	return &memStore{queues: map[string]*Queue{}}
}

func copyQueue(q *Queue) *Queue {
	cp := *q
	cp.Order = append([]int64(nil), q.Order...)
	if q.CurrentSongID != nil {
		id := *q.CurrentSongID
		cp.CurrentSongID = &id
	}
	return &cp
}

func (m *memStore) seed(q *Queue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues[q.UserID] = copyQueue(q)
}

func (m *memStore) stored(userID string) *Queue {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[userID]
	if !ok {
		return nil
	}
	return copyQueue(q)
}

func (m *memStore) Get(ctx context.Context, userID string) (*Queue, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyQueue(q), nil
}

func (m *memStore) GetOrCreate(ctx context.Context, userID string) (*Queue, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[userID]
	if !ok {
		q = &Queue{UserID: userID, Order: []int64{}}
		m.queues[userID] = q
	}
	return copyQueue(q), nil
}

func (m *memStore) Save(ctx context.Context, q *Queue) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.queues[q.UserID] = copyQueue(q)
	return nil
}

// memCatalog resolves tracks from a fixed map.
type memCatalog struct {
	tracks map[int64]songs.Song
}

func newMemCatalog(ids ...int64) *memCatalog {
	m := &memCatalog{tracks: map[int64]songs.Song{}}
	for _, id := range ids {
		m.tracks[id] = songs.Song{ID: id, Title: "track", Artist: "artist"}
	}
	return m
}

func (m *memCatalog) ByID(ctx context.Context, id int64) (songs.Song, error) {
	s, ok := m.tracks[id]
	if !ok {
		return songs.Song{}, songs.ErrNotFound
	}
	return s, nil
}

func (m *memCatalog) ByIDs(ctx context.Context, ids []int64) (map[int64]songs.Song, error) {
	out := map[int64]songs.Song{}
	for _, id := range ids {
		if s, ok := m.tracks[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}
