package songs

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	list, err := s.catalog.List(r.Context())
	if err != nil {
		log.Printf("songs: list: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"songs": list,
	})
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	song, err := s.catalog.ByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "song not found")
		return
	}
	if err != nil {
		log.Printf("songs: get %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"song": song,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	limit := parseLimit(r.URL.Query().Get("limit"))
	list, err := s.catalog.Search(r.Context(), q, limit)
	if err != nil {
		log.Printf("songs: search %q: %v", q, err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"songs": list,
	})
}

func (s *Server) handleFeaturedSongs(w http.ResponseWriter, r *http.Request) {
	s.writeSongList(w, r, "featured", s.catalog.Featured)
}

func (s *Server) handlePopularSongs(w http.ResponseWriter, r *http.Request) {
	s.writeSongList(w, r, "popular", s.catalog.Popular)
}

func (s *Server) handleRecentSongs(w http.ResponseWriter, r *http.Request) {
	s.writeSongList(w, r, "recent", s.catalog.Recent)
}

func (s *Server) writeSongList(
	w http.ResponseWriter,
	r *http.Request,
	what string,
	fetch func(ctx context.Context, limit int) ([]Song, error),
) {
	limit := parseLimit(r.URL.Query().Get("limit"))
	list, err := fetch(r.Context(), limit)
	if err != nil {
		log.Printf("songs: %s: %v", what, err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"songs": list,
	})
}

func (s *Server) handlePopularArtists(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))
	list, err := s.catalog.PopularArtists(r.Context(), limit)
	if err != nil {
		log.Printf("songs: popular artists: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"artists": list,
	})
}

func (s *Server) handlePopularAlbums(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))
	list, err := s.catalog.PopularAlbums(r.Context(), limit)
	if err != nil {
		log.Printf("songs: popular albums: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"albums": list,
	})
}

func (s *Server) handleArtistDetails(w http.ResponseWriter, r *http.Request) {
	artist := chi.URLParam(r, "artistName")
	list, err := s.catalog.ByArtist(r.Context(), artist)
	if err != nil {
		log.Printf("songs: artist %q: %v", artist, err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if len(list) == 0 {
		writeError(w, http.StatusNotFound, "artist not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"artist": artist,
		"songs":  list,
	})
}

func (s *Server) handleAlbumDetails(w http.ResponseWriter, r *http.Request) {
	album := chi.URLParam(r, "albumName")
	list, err := s.catalog.ByAlbum(r.Context(), album)
	if err != nil {
		log.Printf("songs: album %q: %v", album, err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if len(list) == 0 {
		writeError(w, http.StatusNotFound, "album not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"album": album,
		"songs": list,
	})
}

func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
