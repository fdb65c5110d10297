package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

func AutoMigrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS users (
          id            TEXT PRIMARY KEY,
          email         TEXT NOT NULL UNIQUE,
          password_hash TEXT NOT NULL,
          first_name    TEXT NOT NULL DEFAULT '',
          last_name     TEXT NOT NULL DEFAULT '',
          phone         TEXT NOT NULL DEFAULT '',
          avatar        TEXT NOT NULL DEFAULT '',
          bio           TEXT NOT NULL DEFAULT '',
          preferences   TEXT NOT NULL DEFAULT '{}',
          plan          TEXT NOT NULL DEFAULT 'free',
          created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `)
	return err
}
