package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Accounts is what the handlers need from the repository.
type Accounts interface {
	Create(ctx context.Context, u User) error
	ByEmail(ctx context.Context, email string) (User, error)
	ByID(ctx context.Context, id string) (User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateProfile(ctx context.Context, u User) error
	UpdatePreferences(ctx context.Context, id, preferences string) error
	UpdatePlan(ctx context.Context, id, plan string) error
}

type Server struct {
	repo       Accounts
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewServer(repo Accounts, jwtSecret []byte) *Server {
	return &Server{
		repo:       repo,
		jwtSecret:  jwtSecret,
		accessTTL:  12 * time.Hour,
		refreshTTL: 30 * 24 * time.Hour,
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)
	r.Post("/refresh", s.handleRefresh)

	r.Group(func(r chi.Router) {
		r.Use(Middleware(s.jwtSecret))

		r.Post("/logout", s.handleLogout)
		r.Get("/me", s.handleGetProfile)
		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handleUpdateProfile)
		r.Post("/change-password", s.handleChangePassword)
		r.Get("/preferences", s.handleGetPreferences)
		r.Put("/preferences", s.handleUpdatePreferences)
		r.Get("/plan", s.handleGetPlan)
		r.Put("/plan", s.handleUpdatePlan)
	})

	return r
}
