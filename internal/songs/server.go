package songs

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Catalog is what the HTTP layer needs from the store.
type Catalog interface {
	ByID(ctx context.Context, id int64) (Song, error)
	List(ctx context.Context) ([]Song, error)
	Search(ctx context.Context, q string, limit int) ([]Song, error)
	Featured(ctx context.Context, limit int) ([]Song, error)
	Popular(ctx context.Context, limit int) ([]Song, error)
	Recent(ctx context.Context, limit int) ([]Song, error)
	PopularArtists(ctx context.Context, limit int) ([]Artist, error)
	PopularAlbums(ctx context.Context, limit int) ([]Album, error)
	ByArtist(ctx context.Context, artist string) ([]Song, error)
	ByAlbum(ctx context.Context, album string) ([]Song, error)
}

type Server struct {
	catalog Catalog
}

func NewServer(catalog Catalog) *Server {
	return &Server{catalog: catalog}
}

// Router exposes the public catalog routes. Browsing does not require auth.
func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/featured", s.handleFeaturedSongs)
	r.Get("/popular", s.handlePopularSongs)
	r.Get("/recent", s.handleRecentSongs)
	r.Get("/artists/popular", s.handlePopularArtists)
	r.Get("/albums/popular", s.handlePopularAlbums)

	r.Get("/search", s.handleSearch)

	r.Get("/artist/{artistName}", s.handleArtistDetails)
	r.Get("/album/{albumName}", s.handleAlbumDetails)

	r.Get("/", s.handleListSongs)
	r.Get("/{id}", s.handleGetSong)

	return r
}
