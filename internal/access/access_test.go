package access

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/config"
	"bookcatalog/internal/httpx"
)

var reader = httpx.Principal{UserID: 1, Username: "reader"}

func TestPolicy_Allow(t *testing.T) {
	tests := []struct {
		readPolicy string
		principal  httpx.Principal
		action     Action
		want       bool
	}{
		{config.ReadPolicyPublic, httpx.Anonymous, ActionList, true},
		{config.ReadPolicyPublic, httpx.Anonymous, ActionRetrieve, true},
		{config.ReadPolicyPublic, httpx.Anonymous, ActionCreate, false},
		{config.ReadPolicyPublic, httpx.Anonymous, ActionUpdate, false},
		{config.ReadPolicyPublic, httpx.Anonymous, ActionDelete, false},
		{config.ReadPolicyPublic, reader, ActionList, true},
		{config.ReadPolicyPublic, reader, ActionCreate, true},
		{config.ReadPolicyPublic, reader, ActionDelete, true},
		{config.ReadPolicyAuthenticated, httpx.Anonymous, ActionList, false},
		{config.ReadPolicyAuthenticated, httpx.Anonymous, ActionRetrieve, false},
		{config.ReadPolicyAuthenticated, reader, ActionRetrieve, true},
		{config.ReadPolicyAuthenticated, reader, ActionUpdate, true},
	}

	for _, tt := range tests {
		name := tt.readPolicy + "/" + subjectOf(tt.principal) + "/" + string(tt.action)
		t.Run(name, func(t *testing.T) {
			p, err := NewPolicy(tt.readPolicy)
			require.NoError(t, err)

			for _, resource := range []string{"books", "authors", "libraries"} {
				got, err := p.Allow(tt.principal, resource, tt.action)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got, resource)
			}
		})
	}
}

func TestNewPolicy_Unknown(t *testing.T) {
	_, err := NewPolicy("everyone")
	assert.Error(t, err)
}

func TestRequire(t *testing.T) {
	p, err := NewPolicy(config.ReadPolicyPublic)
	require.NoError(t, err)

	called := false
	h := p.Require("books", ActionCreate, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusCreated)
	})

	t.Run("anonymous gets 401 with challenge", func(t *testing.T) {
		called = false
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/books/create/", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Token")
		assert.False(t, called)
	})

	t.Run("authenticated passes", func(t *testing.T) {
		called = false
		r := httptest.NewRequest(http.MethodPost, "/books/create/", nil)
		r = r.WithContext(httpx.ContextWithPrincipal(r.Context(), reader))
		w := httptest.NewRecorder()
		h(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, called)
	})
}

func TestRequire_AuthenticatedDenied(t *testing.T) {
	p, err := NewPolicy(config.ReadPolicyPublic)
	require.NoError(t, err)
	_, err = p.enforcer.RemovePolicy(SubjectAuthenticated, "*", "*")
	require.NoError(t, err)

	h := p.Require("books", ActionDelete, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	r := httptest.NewRequest(http.MethodDelete, "/books/1/delete/", nil)
	r = r.WithContext(httpx.ContextWithPrincipal(r.Context(), reader))
	w := httptest.NewRecorder()
	h(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
