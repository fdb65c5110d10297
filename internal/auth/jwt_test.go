package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	srv := NewServer(newMemAccounts(), testSecret)
	user := User{ID: "u1", Email: "ana@example.com"}

	tokens, err := srv.issueTokens(user)
	require.NoError(t, err)

	access, err := parseToken(testSecret, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", access.UserID)
	assert.Equal(t, "ana@example.com", access.Email)
	assert.Equal(t, "access", access.TokenType)

	refresh, err := parseToken(testSecret, tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refresh.TokenType)
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time),
		"refresh token should outlive the access token")
}

func TestParseTokenWrongSecret(t *testing.T) {
	srv := NewServer(newMemAccounts(), testSecret)
	tokens, err := srv.issueTokens(User{ID: "u1"})
	require.NoError(t, err)

	_, err = parseToken([]byte("another_secret"), tokens.AccessToken)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	srv := NewServer(newMemAccounts(), testSecret)
	srv.accessTTL = -time.Minute

	tokens, err := srv.issueTokens(User{ID: "u1"})
	require.NoError(t, err)

	_, err = parseToken(testSecret, tokens.AccessToken)
	assert.Error(t, err)
}

func TestMiddlewareInjectsIdentity(t *testing.T) {
	srv := NewServer(newMemAccounts(), testSecret)
	tokens, err := srv.issueTokens(User{ID: "u1", Email: "ana@example.com"})
	require.NoError(t, err)

	var gotUser, gotEmail string
	handler := Middleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = r.Header.Get("X-User-Id")
		gotEmail = r.Header.Get("X-User-Email")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", gotUser)
	assert.Equal(t, "ana@example.com", gotEmail)
}

func TestMiddlewareRejections(t *testing.T) {
	srv := NewServer(newMemAccounts(), testSecret)
	tokens, err := srv.issueTokens(User{ID: "u1"})
	require.NoError(t, err)

	handler := Middleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with invalid credentials")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"refresh token as access", "Bearer " + tokens.RefreshToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
