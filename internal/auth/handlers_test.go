package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test_secret")

// memAccounts backs the handlers with an in-memory user table.
type memAccounts struct {
	byID    map[string]User
	byEmail map[string]User
}

func newMemAccounts(users ...User) *memAccounts {
	m := &memAccounts{
		byID:    map[string]User{},
		byEmail: map[string]User{},
	}
	for _, u := range users {
		m.byID[u.ID] = u
		m.byEmail[u.Email] = u
	}
	return m
}

func (m *memAccounts) Create(ctx context.Context, u User) error {
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *memAccounts) ByEmail(ctx context.Context, email string) (User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (m *memAccounts) ByID(ctx context.Context, id string) (User, error) {
	u, ok := m.byID[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (m *memAccounts) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *memAccounts) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	u, ok := m.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	m.byID[id] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *memAccounts) UpdateProfile(ctx context.Context, u User) error {
	cur, ok := m.byID[u.ID]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = cur.PasswordHash
	u.Email = cur.Email
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *memAccounts) UpdatePreferences(ctx context.Context, id, preferences string) error {
	u, ok := m.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Preferences = preferences
	m.byID[id] = u
	return nil
}

func (m *memAccounts) UpdatePlan(ctx context.Context, id, plan string) error {
	u, ok := m.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Plan = plan
	m.byID[id] = u
	return nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func postJSON(t *testing.T, srv *Server, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	var out map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMemAccounts()
	srv := NewServer(repo, testSecret)

	w, body := postJSON(t, srv, "/register", map[string]any{
		"email":    "Ana@Example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, body["ok"])
	assert.NotEmpty(t, body["id"])

	// Email is stored lowercased.
	if _, err := repo.ByEmail(context.Background(), "ana@example.com"); err != nil {
		t.Fatalf("user not stored under lowercased email: %v", err)
	}

	w, body = postJSON(t, srv, "/login", map[string]any{
		"email":    "ana@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, body["accessToken"])
	assert.NotEmpty(t, body["refreshToken"])
	assert.Equal(t, "ana@example.com", body["user"].(map[string]any)["email"])
}

func TestRegisterValidation(t *testing.T) {
	srv := NewServer(newMemAccounts(), testSecret)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing email", map[string]any{"password": "supersecret"}},
		{"bad email", map[string]any{"email": "not-an-email", "password": "supersecret"}},
		{"short password", map[string]any{"email": "a@b.com", "password": "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := postJSON(t, srv, "/register", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMemAccounts(User{ID: "u1", Email: "taken@example.com"})
	srv := NewServer(repo, testSecret)

	w, body := postJSON(t, srv, "/register", map[string]any{
		"email":    "taken@example.com",
		"password": "supersecret",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email already registered", body["error"])
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMemAccounts(User{
		ID:           "u1",
		Email:        "ana@example.com",
		PasswordHash: mustHash(t, "rightpassword"),
	})
	srv := NewServer(repo, testSecret)

	w, body := postJSON(t, srv, "/login", map[string]any{
		"email":    "ana@example.com",
		"password": "wrongpassword",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", body["error"])
}

func TestLoginUnknownEmail(t *testing.T) {
	srv := NewServer(newMemAccounts(), testSecret)

	w, _ := postJSON(t, srv, "/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "whatever123",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshRotatesTokens(t *testing.T) {
	user := User{ID: "u1", Email: "ana@example.com"}
	srv := NewServer(newMemAccounts(user), testSecret)

	tokens, err := srv.issueTokens(user)
	require.NoError(t, err)

	w, body := postJSON(t, srv, "/refresh", map[string]any{
		"refreshToken": tokens.RefreshToken,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, body["accessToken"])
	assert.NotEmpty(t, body["refreshToken"])
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	user := User{ID: "u1", Email: "ana@example.com"}
	srv := NewServer(newMemAccounts(user), testSecret)

	tokens, err := srv.issueTokens(user)
	require.NoError(t, err)

	// An access token must not be accepted where a refresh token is expected.
	w, _ := postJSON(t, srv, "/refresh", map[string]any{
		"refreshToken": tokens.AccessToken,
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePassword(t *testing.T) {
	user := User{
		ID:           "u1",
		Email:        "ana@example.com",
		PasswordHash: mustHash(t, "oldpassword"),
	}
	repo := newMemAccounts(user)
	srv := NewServer(repo, testSecret)

	tokens, err := srv.issueTokens(user)
	require.NoError(t, err)
	authHeader := map[string]string{"Authorization": "Bearer " + tokens.AccessToken}

	w, _ := postJSON(t, srv, "/change-password", map[string]any{
		"currentPassword": "wrongpassword",
		"newPassword":     "newpassword1",
	}, authHeader)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = postJSON(t, srv, "/change-password", map[string]any{
		"currentPassword": "oldpassword",
		"newPassword":     "newpassword1",
	}, authHeader)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := repo.ByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpassword1")))
}

func TestLoginResponseHidesPasswordHash(t *testing.T) {
	user := User{
		ID:           "u1",
		Email:        "ana@example.com",
		PasswordHash: mustHash(t, "supersecret"),
	}
	srv := NewServer(newMemAccounts(user), testSecret)

	w, _ := postJSON(t, srv, "/login", map[string]any{
		"email":    "ana@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, strings.Contains(w.Body.String(), user.PasswordHash))
}
