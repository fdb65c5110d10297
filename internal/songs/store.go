package songs

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a song id does not exist in the catalog.
var ErrNotFound = errors.New("song not found")

// DB is the subset of pgxpool.Pool the store needs. Kept as an interface so
// tests can substitute mocks.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads the song catalog.
type Store struct {
	db DB
}

func NewStore(db DB) *Store {
	return &Store{db: db}
}

const songColumns = `id, title, artist, album, duration, cover_url, audio_url, youtube_id, is_example, created_at, updated_at`

func scanSong(row pgx.Row) (Song, error) {
	var s Song
	err := row.Scan(
		&s.ID,
		&s.Title,
		&s.Artist,
		&s.Album,
		&s.Duration,
		&s.CoverURL,
		&s.AudioURL,
		&s.YoutubeID,
		&s.IsExample,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (st *Store) collect(rows pgx.Rows) ([]Song, error) {
	defer rows.Close()
	out := []Song{}
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ByID fetches a single song. Returns ErrNotFound when the id is unknown.
func (st *Store) ByID(ctx context.Context, id int64) (Song, error) {
	s, err := scanSong(st.db.QueryRow(ctx, `
		SELECT `+songColumns+`
		FROM songs
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Song{}, ErrNotFound
	}
	return s, err
}

// ByIDs fetches all songs whose id is in ids with a single query. Unknown ids
// are simply absent from the result map.
func (st *Store) ByIDs(ctx context.Context, ids []int64) (map[int64]Song, error) {
	out := map[int64]Song{}
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := st.db.Query(ctx, `
		SELECT `+songColumns+`
		FROM songs
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	list, err := st.collect(rows)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		out[s.ID] = s
	}
	return out, nil
}

// List returns the whole catalog, newest first.
func (st *Store) List(ctx context.Context) ([]Song, error) {
	rows, err := st.db.Query(ctx, `
		SELECT `+songColumns+`
		FROM songs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return st.collect(rows)
}

// Search matches title, artist or album case-insensitively.
func (st *Store) Search(ctx context.Context, q string, limit int) ([]Song, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := st.db.Query(ctx, `
		SELECT `+songColumns+`
		FROM songs
		WHERE title ILIKE '%' || $1 || '%'
		   OR artist ILIKE '%' || $1 || '%'
		   OR album ILIKE '%' || $1 || '%'
		ORDER BY title ASC
		LIMIT $2
	`, q, limit)
	if err != nil {
		return nil, err
	}
	return st.collect(rows)
}

// Featured returns the curated example songs seeded into the catalog.
func (st *Store) Featured(ctx context.Context, limit int) ([]Song, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := st.db.Query(ctx, `
		SELECT `+songColumns+`
		FROM songs
		WHERE is_example = TRUE
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return st.collect(rows)
}

// Popular orders songs by like count.
func (st *Store) Popular(ctx context.Context, limit int) ([]Song, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := st.db.Query(ctx, `
		SELECT s.id, s.title, s.artist, s.album, s.duration, s.cover_url, s.audio_url,
		       s.youtube_id, s.is_example, s.created_at, s.updated_at
		FROM songs s
		LEFT JOIN likes l ON l.song_id = s.id
		GROUP BY s.id
		ORDER BY COUNT(l.user_id) DESC, s.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return st.collect(rows)
}

// Recent returns the latest additions to the catalog.
func (st *Store) Recent(ctx context.Context, limit int) ([]Song, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := st.db.Query(ctx, `
		SELECT `+songColumns+`
		FROM songs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return st.collect(rows)
}

// PopularArtists aggregates the catalog by artist, most-liked first.
func (st *Store) PopularArtists(ctx context.Context, limit int) ([]Artist, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := st.db.Query(ctx, `
		SELECT s.artist, COUNT(DISTINCT s.id), MIN(s.cover_url)
		FROM songs s
		LEFT JOIN likes l ON l.song_id = s.id
		GROUP BY s.artist
		ORDER BY COUNT(l.user_id) DESC, s.artist ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Artist{}
	for rows.Next() {
		var a Artist
		if err := rows.Scan(&a.Name, &a.SongCount, &a.CoverURL); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// PopularAlbums aggregates the catalog by album, most-liked first.
func (st *Store) PopularAlbums(ctx context.Context, limit int) ([]Album, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := st.db.Query(ctx, `
		SELECT s.album, MIN(s.artist), COUNT(DISTINCT s.id), MIN(s.cover_url)
		FROM songs s
		LEFT JOIN likes l ON l.song_id = s.id
		WHERE s.album <> ''
		GROUP BY s.album
		ORDER BY COUNT(l.user_id) DESC, s.album ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Album{}
	for rows.Next() {
		var a Album
		if err := rows.Scan(&a.Name, &a.Artist, &a.SongCount, &a.CoverURL); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ByArtist lists an artist's songs.
func (st *Store) ByArtist(ctx context.Context, artist string) ([]Song, error) {
	rows, err := st.db.Query(ctx, `
		SELECT `+songColumns+`
		FROM songs
		WHERE artist = $1
		ORDER BY created_at DESC
	`, artist)
	if err != nil {
		return nil, err
	}
	return st.collect(rows)
}

// ByAlbum lists an album's songs.
func (st *Store) ByAlbum(ctx context.Context, album string) ([]Song, error) {
	rows, err := st.db.Query(ctx, `
		SELECT `+songColumns+`
		FROM songs
		WHERE album = $1
		ORDER BY created_at DESC
	`, album)
	if err != nil {
		return nil, err
	}
	return st.collect(rows)
}
