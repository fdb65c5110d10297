package library

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleLikeSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

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

	var exists bool
	if err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM songs WHERE id = $1)
	`, *body.SongID).Scan(&exists); err != nil {
		log.Printf("library: like catalog check: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "song not found")
		return
	}

	// Liking twice is a no-op.
	if _, err := s.db.Exec(ctx, `
		INSERT INTO likes (user_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, song_id) DO NOTHING
	`, userID, *body.SongID); err != nil {
		log.Printf("library: like insert: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":     true,
		"songId": *body.SongID,
		"liked":  true,
	})
}

func (s *Server) handleUnlikeSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}
	songID, err := strconv.ParseInt(chi.URLParam(r, "songId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	if _, err := s.db.Exec(ctx, `
		DELETE FROM likes WHERE user_id = $1 AND song_id = $2
	`, userID, songID); err != nil {
		log.Printf("library: unlike: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCheckLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}
	songID, err := strconv.ParseInt(chi.URLParam(r, "songId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	var liked bool
	if err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND song_id = $2)
	`, userID, songID).Scan(&liked); err != nil {
		log.Printf("library: check like: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"songId": songID,
		"liked":  liked,
	})
}

func (s *Server) handleListLikedSongs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	rows, err := s.db.Query(ctx, `
		SELECT s.id, s.title, s.artist, s.album, s.duration, s.cover_url, s.audio_url,
		       s.youtube_id, s.is_example, s.created_at, s.updated_at,
		       l.created_at
		FROM likes l
		JOIN songs s ON s.id = l.song_id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC
	`, userID)
	if err != nil {
		log.Printf("library: list likes: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer rows.Close()

	liked := []PlaylistSong{}
	for i := 0; rows.Next(); i++ {
		var it PlaylistSong
		if err := rows.Scan(
			&it.Song.ID,
			&it.Song.Title,
			&it.Song.Artist,
			&it.Song.Album,
			&it.Song.Duration,
			&it.Song.CoverURL,
			&it.Song.AudioURL,
			&it.Song.YoutubeID,
			&it.Song.IsExample,
			&it.Song.CreatedAt,
			&it.Song.UpdatedAt,
			&it.AddedAt,
		); err != nil {
			log.Printf("library: list likes scan: %v", err)
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		it.Position = i
		liked = append(liked, it)
	}
	if err := rows.Err(); err != nil {
		log.Printf("library: list likes rows: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"songs": liked,
	})
}
