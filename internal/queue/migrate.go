package queue

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

func AutoMigrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS queues (
          id               BIGSERIAL PRIMARY KEY,
          user_id          TEXT NOT NULL UNIQUE,
          queue_order      BIGINT[] NOT NULL DEFAULT '{}',
          current_position INT NOT NULL DEFAULT 0,
          current_song_id  BIGINT,
          created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
          updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `)
	return err
}
