package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/httpx"
	"bookcatalog/internal/platform/cache"
	"bookcatalog/internal/testutil"
)

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == httpx.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestHTTPHandler_ObtainToken(t *testing.T) {
	f := newFixture(t, cache.NewMemory())
	h := NewHTTPHandler(f.service, false)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantBody   string
	}{
		{
			name:       "bad password",
			body:       map[string]any{"username": "alice", "password": "nope"},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"non_field_errors":["Unable to log in with provided credentials."]}`,
		},
		{
			name:       "missing fields",
			body:       map[string]any{},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"username":["This field is required."],"password":["This field is required."]}`,
		},
		{
			name:       "malformed",
			body:       `{"username":`,
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ObtainToken(w, testutil.NewRequest(http.MethodPost, "/auth/token/", tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}

	t.Run("ok", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ObtainToken(w, testutil.NewRequest(http.MethodPost, "/auth/token/",
			map[string]any{"username": "alice", "password": testPassword}))

		require.Equal(t, http.StatusOK, w.Code)
		var out map[string]string
		testutil.DecodeBody(t, w, &out)
		assert.Len(t, out["token"], 40)

		p, err := f.service.AuthenticateToken(context.Background(), out["token"])
		require.NoError(t, err)
		assert.Equal(t, "alice", p.Username)
	})
}

func TestHTTPHandler_LoginLogout(t *testing.T) {
	f := newFixture(t, cache.NewMemory())
	h := NewHTTPHandler(f.service, true)
	ctx := context.Background()

	w := httptest.NewRecorder()
	h.Login(w, testutil.NewRequest(http.MethodPost, "/auth/login/",
		map[string]any{"username": "alice", "password": testPassword}))

	require.Equal(t, http.StatusNoContent, w.Code)
	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	_, err := f.service.AuthenticateSession(ctx, c.Value)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/auth/logout/", nil)
	r.AddCookie(c)
	r = testutil.AsUser(r, httpx.Principal{UserID: f.alice.ID, Username: "alice", Method: "session"})
	w = httptest.NewRecorder()
	h.Logout(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	cleared := sessionCookie(w)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	_, err = f.service.AuthenticateSession(ctx, c.Value)
	assert.ErrorIs(t, err, httpx.ErrInvalidCredentials)
}

func TestHTTPHandler_LogoutRevokesToken(t *testing.T) {
	f := newFixture(t, cache.NewMemory())
	h := NewHTTPHandler(f.service, false)
	ctx := context.Background()

	key, err := f.service.ObtainToken(ctx, "alice", testPassword)
	require.NoError(t, err)

	t.Run("session principal keeps the token", func(t *testing.T) {
		r := testutil.NewRequestWithToken(http.MethodPost, "/auth/logout/", nil, key)
		r = testutil.AsUser(r, httpx.Principal{UserID: f.alice.ID, Username: "alice", Method: "session"})
		w := httptest.NewRecorder()
		h.Logout(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		_, err := f.service.AuthenticateToken(ctx, key)
		assert.NoError(t, err)
	})

	t.Run("token principal revokes it", func(t *testing.T) {
		r := testutil.NewRequestWithToken(http.MethodPost, "/auth/logout/", nil, key)
		r = testutil.AsUser(r, httpx.Principal{UserID: f.alice.ID, Username: "alice", Method: "token"})
		w := httptest.NewRecorder()
		h.Logout(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		_, err := f.service.AuthenticateToken(ctx, key)
		assert.ErrorIs(t, err, httpx.ErrInvalidCredentials)
	})
}
