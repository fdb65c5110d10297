package songs

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

func AutoMigrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS songs (
          id         BIGSERIAL PRIMARY KEY,
          title      TEXT NOT NULL,
          artist     TEXT NOT NULL,
          album      TEXT NOT NULL DEFAULT '',
          duration   INT NOT NULL DEFAULT 0,
          cover_url  TEXT NOT NULL DEFAULT '',
          audio_url  TEXT NOT NULL DEFAULT '',
          youtube_id TEXT NOT NULL DEFAULT '',
          is_example BOOLEAN NOT NULL DEFAULT FALSE,
          created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
          updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_songs_artist ON songs(artist)
    `)
	return err
}
