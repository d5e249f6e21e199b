package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"bookcatalog/internal/access"
	"bookcatalog/internal/auth"
	"bookcatalog/internal/author"
	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/library"
	"bookcatalog/internal/memstore"
	"bookcatalog/internal/platform/cache"
	"bookcatalog/internal/platform/database"
	"bookcatalog/internal/platform/logger"
	"bookcatalog/internal/token"
	"bookcatalog/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logger.Init(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open store")
	}
	defer closeStore()

	c, closeCache := openCache(ctx, cfg)
	defer closeCache()

	policy, err := access.NewPolicy(cfg.ReadPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot build access policy")
	}

	if err := bootstrapUser(ctx, cfg, user.NewService(repos.users)); err != nil {
		log.Fatal().Err(err).Msg("cannot create bootstrap user")
	}

	httpServer := &http.Server{
		Addr: cfg.Addr,
		Handler: newRouter(ctx, routerDeps{
			cfg:    cfg,
			repos:  repos,
			cache:  c,
			policy: policy,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", cfg.Addr).
			Str("store", cfg.StoreDriver).
			Str("read_policy", cfg.ReadPolicy).
			Bool("author_delete_cascade", cfg.AuthorDeleteCascade).
			Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func openStore(ctx context.Context, cfg *config.Config) (repositories, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		store := memstore.New()
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return repositories{
			books:     store.Books(),
			authors:   store.Authors(),
			users:     store.Users(),
			tokens:    store.Tokens(),
			libraries: store.Libraries(),
			ping:      func(context.Context) error { return nil },
		}, func() {}, nil
	}

	log.Info().Str("dsn", config.RedactDSN(cfg.DBDSN)).Msg("connecting to database")
	pool, err := database.Connect(ctx, cfg.DBDSN, database.DefaultOptions())
	if err != nil {
		return repositories{}, nil, err
	}
	timeout := cfg.DBQueryTimeout
	return repositories{
		books:     book.NewPostgresRepo(pool, timeout),
		authors:   author.NewPostgresRepo(pool, timeout),
		users:     user.NewPostgresRepo(pool, timeout),
		tokens:    token.NewPostgresRepo(pool, timeout),
		libraries: library.NewPostgresRepo(pool, timeout),
		ping:      pool.Ping,
	}, pool.Close, nil
}

// openCache prefers Redis and falls back to process memory when Redis is
// not configured or not reachable.
func openCache(ctx context.Context, cfg *config.Config) (auth.Cache, func()) {
	memory := func() (auth.Cache, func()) {
		m := cache.NewMemory()
		m.SweepEvery(ctx, time.Minute)
		return m, func() {}
	}
	if cfg.RedisAddr == "" {
		return memory()
	}
	r := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := r.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, using in-memory cache")
		_ = r.Close()
		return memory()
	}
	return r, func() { _ = r.Close() }
}

func bootstrapUser(ctx context.Context, cfg *config.Config, users *user.Service) error {
	if cfg.BootstrapUsername == "" {
		return nil
	}
	u, created, err := users.EnsureUser(ctx, cfg.BootstrapUsername, cfg.BootstrapPassword)
	if err != nil {
		return err
	}
	if created {
		log.Info().Int64("user_id", u.ID).Str("username", u.Username).Msg("bootstrap user created")
	}
	return nil
}
