package library

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := r.Header.Get("X-User-Id")
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IsPublic    *bool  `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Description = strings.TrimSpace(body.Description)
	if body.Name == "" || len(body.Name) > 200 {
		writeError(w, http.StatusBadRequest, "name must be between 1 and 200 characters")
		return
	}
	if len(body.Description) > 1000 {
		writeError(w, http.StatusBadRequest, "description is too long")
		return
	}

	isPublic := false
	if body.IsPublic != nil {
		isPublic = *body.IsPublic
	}

	var pl Playlist
	err := s.db.QueryRow(ctx, `
		INSERT INTO playlists (owner_id, name, description, is_public)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, name, description, is_public, created_at
	`, ownerID, body.Name, body.Description, isPublic).Scan(
		&pl.ID,
		&pl.OwnerID,
		&pl.Name,
		&pl.Description,
		&pl.IsPublic,
		&pl.CreatedAt,
	)
	if err != nil {
		log.Printf("library: create playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, map[string]any{
		"type":    "playlist.created",
		"payload": map[string]any{"playlist": pl},
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":       true,
		"playlist": pl,
	})
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.owner_id, p.name, p.description, p.is_public, p.created_at,
		       (SELECT COUNT(*) FROM playlist_songs ps WHERE ps.playlist_id = p.id)
		FROM playlists p
		WHERE p.owner_id = $1
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		log.Printf("library: list playlists: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer rows.Close()

	playlists := []Playlist{}
	for rows.Next() {
		var pl Playlist
		if err := rows.Scan(
			&pl.ID,
			&pl.OwnerID,
			&pl.Name,
			&pl.Description,
			&pl.IsPublic,
			&pl.CreatedAt,
			&pl.SongCount,
		); err != nil {
			log.Printf("library: list playlists scan: %v", err)
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		playlists = append(playlists, pl)
	}
	if err := rows.Err(); err != nil {
		log.Printf("library: list playlists rows: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"playlists": playlists,
	})
}

// fetchPlaylist loads playlist metadata, mapping pgx.ErrNoRows to a 404 at the
// caller.
func (s *Server) fetchPlaylist(ctx context.Context, playlistID string) (Playlist, error) {
	var pl Playlist
	err := s.db.QueryRow(ctx, `
		SELECT id, owner_id, name, description, is_public, created_at
		FROM playlists
		WHERE id = $1
	`, playlistID).Scan(
		&pl.ID,
		&pl.OwnerID,
		&pl.Name,
		&pl.Description,
		&pl.IsPublic,
		&pl.CreatedAt,
	)
	return pl, err
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	playlistID := chi.URLParam(r, "id")
	if playlistID == "" {
		writeError(w, http.StatusBadRequest, "missing playlist id")
		return
	}

	pl, err := s.fetchPlaylist(ctx, playlistID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		log.Printf("library: get playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	if !pl.IsPublic && pl.OwnerID != userID {
		writeError(w, http.StatusForbidden, "playlist is private")
		return
	}

	rows, err := s.db.Query(ctx, `
		SELECT s.id, s.title, s.artist, s.album, s.duration, s.cover_url, s.audio_url,
		       s.youtube_id, s.is_example, s.created_at, s.updated_at,
		       ps.position, ps.added_at
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = $1
		ORDER BY ps.position ASC
	`, playlistID)
	if err != nil {
		log.Printf("library: get playlist songs: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer rows.Close()

	items := []PlaylistSong{}
	for rows.Next() {
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
			&it.Position,
			&it.AddedAt,
		); err != nil {
			log.Printf("library: get playlist songs scan: %v", err)
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		log.Printf("library: get playlist songs rows: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	pl.SongCount = len(items)
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"playlist": pl,
		"songs":    items,
	})
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}
	playlistID := chi.URLParam(r, "id")

	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsPublic    *bool   `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	pl, err := s.fetchPlaylist(ctx, playlistID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		log.Printf("library: update playlist fetch: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if pl.OwnerID != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" || len(name) > 200 {
			writeError(w, http.StatusBadRequest, "name must be between 1 and 200 characters")
			return
		}
		pl.Name = name
	}
	if body.Description != nil {
		desc := strings.TrimSpace(*body.Description)
		if len(desc) > 1000 {
			writeError(w, http.StatusBadRequest, "description is too long")
			return
		}
		pl.Description = desc
	}
	if body.IsPublic != nil {
		pl.IsPublic = *body.IsPublic
	}

	if _, err := s.db.Exec(ctx, `
		UPDATE playlists
		SET name = $2, description = $3, is_public = $4
		WHERE id = $1
	`, pl.ID, pl.Name, pl.Description, pl.IsPublic); err != nil {
		log.Printf("library: update playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, map[string]any{
		"type":    "playlist.updated",
		"payload": map[string]any{"playlist": pl},
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"playlist": pl,
	})
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}
	playlistID := chi.URLParam(r, "id")

	pl, err := s.fetchPlaylist(ctx, playlistID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		log.Printf("library: delete playlist fetch: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if pl.OwnerID != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, playlistID); err != nil {
		log.Printf("library: delete playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, map[string]any{
		"type":    "playlist.deleted",
		"payload": map[string]any{"playlistId": playlistID},
	})

	w.WriteHeader(http.StatusNoContent)
}
