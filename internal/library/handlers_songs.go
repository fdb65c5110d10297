package library

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// handleAddSong appends a catalog song to the playlist. A song appears at most
// once per playlist.
func (s *Server) handleAddSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}
	playlistID := chi.URLParam(r, "id")

	var body struct {
		SongID *int64 `json:"songId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.SongID == nil || *body.SongID <= 0 {
		writeError(w, http.StatusBadRequest, "songId is required and must be a positive number")
		return
	}

	pl, err := s.fetchPlaylist(ctx, playlistID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		log.Printf("library: add song fetch playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if pl.OwnerID != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	var exists bool
	if err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM songs WHERE id = $1)
	`, *body.SongID).Scan(&exists); err != nil {
		log.Printf("library: add song catalog check: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "song not found")
		return
	}

	var position int
	err = s.db.QueryRow(ctx, `
		INSERT INTO playlist_songs (playlist_id, song_id, position)
		VALUES (
			$1, $2,
			COALESCE((SELECT MAX(position)+1 FROM playlist_songs WHERE playlist_id = $1), 0)
		)
		ON CONFLICT (playlist_id, song_id) DO NOTHING
		RETURNING position
	`, playlistID, *body.SongID).Scan(&position)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusConflict, "song is already in the playlist")
		return
	}
	if err != nil {
		log.Printf("library: add song insert: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, map[string]any{
		"type": "playlist.song_added",
		"payload": map[string]any{
			"playlistId": playlistID,
			"songId":     *body.SongID,
			"position":   position,
		},
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":       true,
		"songId":   *body.SongID,
		"position": position,
	})
}

// handleRemoveSong deletes a song from the playlist and compacts the
// positions after it.
func (s *Server) handleRemoveSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}
	playlistID := chi.URLParam(r, "id")
	songID, err := strconv.ParseInt(chi.URLParam(r, "songId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	pl, err := s.fetchPlaylist(ctx, playlistID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		log.Printf("library: remove song fetch playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if pl.OwnerID != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		log.Printf("library: remove song begin tx: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer tx.Rollback(ctx)

	var pos int
	err = tx.QueryRow(ctx, `
		SELECT position
		FROM playlist_songs
		WHERE playlist_id = $1 AND song_id = $2
		FOR UPDATE
	`, playlistID, songID).Scan(&pos)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "song not in playlist")
		return
	}
	if err != nil {
		log.Printf("library: remove song fetch: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM playlist_songs
		WHERE playlist_id = $1 AND song_id = $2
	`, playlistID, songID); err != nil {
		log.Printf("library: remove song delete: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	if _, err := tx.Exec(ctx, `
		UPDATE playlist_songs
		SET position = position - 1
		WHERE playlist_id = $1 AND position > $2
	`, playlistID, pos); err != nil {
		log.Printf("library: remove song compact: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("library: remove song commit: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, map[string]any{
		"type": "playlist.song_removed",
		"payload": map[string]any{
			"playlistId": playlistID,
			"songId":     songID,
			"position":   pos,
		},
	})

	w.WriteHeader(http.StatusNoContent)
}

// handleReorderSongs moves one song to a new position, shifting everything in
// between by one.
func (s *Server) handleReorderSongs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}
	playlistID := chi.URLParam(r, "id")

	var body struct {
		SongID      *int64 `json:"songId"`
		NewPosition *int   `json:"newPosition"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.SongID == nil || body.NewPosition == nil {
		writeError(w, http.StatusBadRequest, "songId and newPosition are required")
		return
	}
	if *body.NewPosition < 0 {
		writeError(w, http.StatusBadRequest, "newPosition must be >= 0")
		return
	}

	pl, err := s.fetchPlaylist(ctx, playlistID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		log.Printf("library: reorder fetch playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if pl.OwnerID != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		log.Printf("library: reorder begin tx: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer tx.Rollback(ctx)

	var currentPos int
	err = tx.QueryRow(ctx, `
		SELECT position
		FROM playlist_songs
		WHERE playlist_id = $1 AND song_id = $2
		FOR UPDATE
	`, playlistID, *body.SongID).Scan(&currentPos)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "song not in playlist")
		return
	}
	if err != nil {
		log.Printf("library: reorder fetch song: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	var total int
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM playlist_songs WHERE playlist_id = $1
	`, playlistID).Scan(&total); err != nil {
		log.Printf("library: reorder count: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	newPos := *body.NewPosition
	if newPos >= total {
		newPos = total - 1
	}

	if newPos != currentPos {
		if newPos > currentPos {
			_, err = tx.Exec(ctx, `
				UPDATE playlist_songs
				SET position = position - 1
				WHERE playlist_id = $1
				  AND position > $2
				  AND position <= $3
			`, playlistID, currentPos, newPos)
		} else {
			_, err = tx.Exec(ctx, `
				UPDATE playlist_songs
				SET position = position + 1
				WHERE playlist_id = $1
				  AND position >= $3
				  AND position < $2
			`, playlistID, currentPos, newPos)
		}
		if err != nil {
			log.Printf("library: reorder shift: %v", err)
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}

		if _, err := tx.Exec(ctx, `
			UPDATE playlist_songs
			SET position = $3
			WHERE playlist_id = $1 AND song_id = $2
		`, playlistID, *body.SongID, newPos); err != nil {
			log.Printf("library: reorder set position: %v", err)
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("library: reorder commit: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, map[string]any{
		"type": "playlist.song_moved",
		"payload": map[string]any{
			"playlistId": playlistID,
			"songId":     *body.SongID,
			"from":       currentPos,
			"to":         newPos,
		},
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"songId": *body.SongID,
		"from":   currentPos,
		"to":     newPos,
	})
}
