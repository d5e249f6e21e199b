package main

import (
	"context"
	"net/http"
	"time"

	"bookcatalog/internal/access"
	"bookcatalog/internal/auth"
	"bookcatalog/internal/author"
	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/library"
	"bookcatalog/internal/token"
	"bookcatalog/internal/user"
)

type repositories struct {
	books     book.Repository
	authors   author.Repository
	users     user.Repository
	tokens    token.Repository
	libraries library.Repository
	ping      func(context.Context) error
}

type routerDeps struct {
	cfg    *config.Config
	repos  repositories
	cache  auth.Cache
	policy *access.Policy
	// now defaults to time.Now.
	now book.Clock
}

const (
	resourceBooks     = "books"
	resourceAuthors   = "authors"
	resourceLibraries = "libraries"
)

// newRouter wires handlers, access rules and middleware. ctx bounds the
// rate limiter's background sweeper.
func newRouter(ctx context.Context, d routerDeps) http.Handler {
	users := user.NewService(d.repos.users)
	authService := auth.NewService(auth.Options{
		SessionSecret: d.cfg.SessionSecret,
		SessionTTL:    d.cfg.SessionTTL,
		TokenCacheTTL: d.cfg.TokenCacheTTL,
	}, users, token.NewService(d.repos.tokens), d.cache)

	bookHandler := book.NewHTTPHandler(book.NewService(d.repos.books, d.now))
	authorHandler := author.NewHTTPHandler(author.NewService(d.repos.authors, d.cfg.AuthorDeleteCascade))
	libraryHandler := library.NewHTTPHandler(library.NewService(d.repos.libraries))
	authHandler := auth.NewHTTPHandler(authService, !d.cfg.IsDevelopment())
	userHandler := user.NewHTTPHandler(users)

	p := d.policy
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.repos.ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", httpx.MetricsHandler())

	// Function-based book endpoints.
	router.HandleFunc("GET /books/{$}", p.Require(resourceBooks, access.ActionList, bookHandler.List))
	router.HandleFunc("GET /books/{id}/{$}", p.Require(resourceBooks, access.ActionRetrieve, bookHandler.Get))
	router.HandleFunc("POST /books/create/{$}", p.Require(resourceBooks, access.ActionCreate, bookHandler.Create))
	router.HandleFunc("PUT /books/{id}/update/{$}", p.Require(resourceBooks, access.ActionUpdate, bookHandler.Update))
	router.HandleFunc("DELETE /books/{id}/delete/{$}", p.Require(resourceBooks, access.ActionDelete, bookHandler.Delete))

	// Viewset-style book endpoints.
	router.HandleFunc("GET /books_all/{$}", p.Require(resourceBooks, access.ActionList, bookHandler.List))
	router.HandleFunc("POST /books_all/{$}", p.Require(resourceBooks, access.ActionCreate, bookHandler.Create))
	router.HandleFunc("GET /books_all/{id}/{$}", p.Require(resourceBooks, access.ActionRetrieve, bookHandler.Get))
	router.HandleFunc("PUT /books_all/{id}/{$}", p.Require(resourceBooks, access.ActionUpdate, bookHandler.Update))
	router.HandleFunc("PATCH /books_all/{id}/{$}", p.Require(resourceBooks, access.ActionUpdate, bookHandler.Patch))
	router.HandleFunc("DELETE /books_all/{id}/{$}", p.Require(resourceBooks, access.ActionDelete, bookHandler.Delete))

	router.HandleFunc("GET /authors/{$}", p.Require(resourceAuthors, access.ActionList, authorHandler.List))
	router.HandleFunc("POST /authors/{$}", p.Require(resourceAuthors, access.ActionCreate, authorHandler.Create))
	router.HandleFunc("GET /authors/{id}/{$}", p.Require(resourceAuthors, access.ActionRetrieve, authorHandler.Get))
	router.HandleFunc("PUT /authors/{id}/{$}", p.Require(resourceAuthors, access.ActionUpdate, authorHandler.Update))
	router.HandleFunc("DELETE /authors/{id}/{$}", p.Require(resourceAuthors, access.ActionDelete, authorHandler.Delete))

	router.HandleFunc("GET /libraries/{$}", p.Require(resourceLibraries, access.ActionList, libraryHandler.List))
	router.HandleFunc("POST /libraries/{$}", p.Require(resourceLibraries, access.ActionCreate, libraryHandler.Create))
	router.HandleFunc("GET /libraries/{id}/{$}", p.Require(resourceLibraries, access.ActionRetrieve, libraryHandler.Get))
	router.HandleFunc("DELETE /libraries/{id}/{$}", p.Require(resourceLibraries, access.ActionDelete, libraryHandler.Delete))
	router.HandleFunc("POST /libraries/{id}/books/{$}", p.Require(resourceLibraries, access.ActionUpdate, libraryHandler.AddBook))
	router.HandleFunc("DELETE /libraries/{id}/books/{book_id}/{$}", p.Require(resourceLibraries, access.ActionUpdate, libraryHandler.RemoveBook))
	router.HandleFunc("PUT /libraries/{id}/librarian/{$}", p.Require(resourceLibraries, access.ActionUpdate, libraryHandler.SetLibrarian))

	router.HandleFunc("POST /auth/token/{$}", authHandler.ObtainToken)
	router.HandleFunc("POST /auth/login/{$}", authHandler.Login)
	router.HandleFunc("POST /auth/logout/{$}", authHandler.Logout)
	router.HandleFunc("GET /auth/me/{$}", userHandler.GetCurrentUser)

	rateLimiter := httpx.NewRateLimiter(ctx, d.cfg.RateLimitRPS, d.cfg.RateLimitBurst)

	// MetricsMiddleware sits directly on the mux so it sees the matched
	// route pattern.
	return httpx.Chain(httpx.MetricsMiddleware(router),
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware,
		httpx.AccessLogMiddleware,
		httpx.CORSMiddleware(d.cfg.CORSAllowedOrigins),
		httpx.SecurityHeadersMiddleware(d.cfg.EnableHSTS),
		httpx.RequestSizeLimitMiddleware(d.cfg.MaxBodyBytes),
		httpx.AuthMiddleware(authService),
		rateLimiter.Middleware,
	)
}
