package queue

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned by Store.Get when the user has no queue row yet.
var ErrNotFound = errors.New("queue not found")

// Store persists one queue row per user.
type Store interface {
	Get(ctx context.Context, userID string) (*Queue, error)
	// GetOrCreate lazily creates an empty queue on first access.
	GetOrCreate(ctx context.Context, userID string) (*Queue, error)
	Save(ctx context.Context, q *Queue) error
}

// DB is the subset of pgxpool.Pool the postgres store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (st *PostgresStore) Get(ctx context.Context, userID string) (*Queue, error) {
	q := &Queue{UserID: userID}
	err := st.db.QueryRow(ctx, `
		SELECT queue_order, current_position, current_song_id
		FROM queues
		WHERE user_id = $1
	`, userID).Scan(&q.Order, &q.CurrentPosition, &q.CurrentSongID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (st *PostgresStore) GetOrCreate(ctx context.Context, userID string) (*Queue, error) {
	q := &Queue{UserID: userID}
	// The no-op DO UPDATE makes RETURNING yield the row in both cases.
	err := st.db.QueryRow(ctx, `
		INSERT INTO queues (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING queue_order, current_position, current_song_id
	`, userID).Scan(&q.Order, &q.CurrentPosition, &q.CurrentSongID)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (st *PostgresStore) Save(ctx context.Context, q *Queue) error {
	order := q.Order
	if order == nil {
		order = []int64{}
	}
	_, err := st.db.Exec(ctx, `
		UPDATE queues
		SET queue_order = $2,
		    current_position = $3,
		    current_song_id = $4,
		    updated_at = now()
		WHERE user_id = $1
	`, q.UserID, order, q.CurrentPosition, q.CurrentSongID)
	return err
}
