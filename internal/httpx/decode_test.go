package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type decodeTarget struct {
	Title *string `json:"title"`
}

func TestDecodeJSON(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		var dst decodeTarget
		w := httptest.NewRecorder()
		ok := DecodeJSON(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Dune"}`)), &dst)
		assert.True(t, ok)
		if assert.NotNil(t, dst.Title) {
			assert.Equal(t, "Dune", *dst.Title)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		var dst decodeTarget
		ok := DecodeJSON(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &dst)
		assert.True(t, ok)
		assert.Nil(t, dst.Title)
	})

	t.Run("malformed body", func(t *testing.T) {
		var dst decodeTarget
		w := httptest.NewRecorder()
		ok := DecodeJSON(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`)), &dst)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "JSON parse error")
	})

	t.Run("body over limit", func(t *testing.T) {
		var dst decodeTarget
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"`+strings.Repeat("x", 64)+`"}`))
		r.Body = http.MaxBytesReader(w, r.Body, 16)
		ok := DecodeJSON(w, r, &dst)
		assert.False(t, ok)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
