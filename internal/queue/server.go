package queue

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/R4v3ns/back-end-Proyecto/internal/songs"
)

// TrackCatalog resolves track metadata. Implemented by the songs store.
type TrackCatalog interface {
	ByID(ctx context.Context, id int64) (songs.Song, error)
	ByIDs(ctx context.Context, ids []int64) (map[int64]songs.Song, error)
}

type Server struct {
	store   Store
	catalog TrackCatalog
	rdb     *redis.Client
	locks   userLocks
}

func NewServer(store Store, catalog TrackCatalog, rdb *redis.Client) *Server {
	return &Server{
		store:   store,
		catalog: catalog,
		rdb:     rdb,
	}
}

// Router exposes the queue routes. All of them operate on the caller's own
// queue; the JWT middleware in front of this router supplies X-User-Id.
func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/", s.handleGetQueue)
	r.Post("/", s.handleAddToQueue)
	r.Post("/multiple", s.handleAddMultipleToQueue)
	r.Delete("/", s.handleRemoveFromQueue)
	r.Put("/reorder", s.handleReorderQueue)

	return r
}
