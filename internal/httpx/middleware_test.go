package httpx

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORSMiddleware(t *testing.T) {
	spa := []string{"http://localhost:3000", "http://localhost:5173"}

	tests := []struct {
		name        string
		origins     []string
		method      string
		origin      string
		preflight   bool
		wantCode    int
		wantAllowed string
	}{
		{"listed origin", spa, http.MethodGet, "http://localhost:5173", false, http.StatusOK, "http://localhost:5173"},
		{"unlisted origin", spa, http.MethodGet, "http://evil.example", false, http.StatusOK, ""},
		{"no origin", spa, http.MethodGet, "", false, http.StatusOK, ""},
		{"wildcard reflects origin", []string{"*"}, http.MethodGet, "http://any.example", false, http.StatusOK, "http://any.example"},
		{"preflight", spa, http.MethodOptions, "http://localhost:3000", true, http.StatusNoContent, "http://localhost:3000"},
		{"preflight from unlisted origin reaches the router", spa, http.MethodOptions, "http://evil.example", true, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/books/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPut)
			}
			w := httptest.NewRecorder()
			CORSMiddleware(tt.origins)(okHandler()).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantAllowed, w.Header().Get("Access-Control-Allow-Origin"))
			if tt.origin != "" {
				assert.Equal(t, "Origin", w.Header().Get("Vary"))
			}
		})
	}
}

func TestCORSMiddleware_WildcardOmitsCredentials(t *testing.T) {
	h := CORSMiddleware([]string{"*", "http://localhost:3000"})(okHandler())

	tests := []struct {
		origin    string
		wantCreds string
	}{
		{"http://any.example", ""},
		{"http://localhost:3000", "true"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/books/", nil)
		req.Header.Set("Origin", tt.origin)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, tt.wantCreds, w.Header().Get("Access-Control-Allow-Credentials"), tt.origin)
	}
}

func TestCORSMiddleware_PreflightHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/books/7/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()

	CORSMiddleware([]string{"http://localhost:3000"})(okHandler()).ServeHTTP(w, req)

	h := w.Header()
	assert.Equal(t, "true", h.Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, h.Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Contains(t, h.Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Equal(t, "X-Request-Id", h.Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "600", h.Get("Access-Control-Max-Age"))
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	for _, hsts := range []bool{false, true} {
		w := httptest.NewRecorder()
		SecurityHeadersMiddleware(hsts)(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
		if hsts {
			assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=")
		} else {
			assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
		}
	}
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	h := RequestSizeLimitMiddleware(1024)(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(make([]byte, 512))))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(make([]byte, 2048))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"detail":"Request body exceeds 1024 bytes.","code":"REQUEST_TOO_LARGE"}`, w.Body.String())
}

func TestRequestSizeLimitMiddleware_UndeclaredLength(t *testing.T) {
	var readErr error
	h := RequestSizeLimitMiddleware(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
	req.ContentLength = -1
	h.ServeHTTP(httptest.NewRecorder(), req)

	var maxErr *http.MaxBytesError
	require.ErrorAs(t, readErr, &maxErr)
	assert.EqualValues(t, 16, maxErr.Limit)
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	Chain(okHandler(), mw("outer"), mw("middle"), mw("inner")).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "middle", "inner"}, order)
}
