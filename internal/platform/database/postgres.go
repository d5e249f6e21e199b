package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type Options struct {
	MaxConns       int32
	MaxRetries     int
	RetryDelay     time.Duration
	ConnectTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxConns:       10,
		MaxRetries:     5,
		RetryDelay:     time.Second,
		ConnectTimeout: 2 * time.Second,
	}
}

// Connect opens a pgx pool and pings it, retrying with exponential backoff
// until MaxRetries attempts have failed or ctx is done.
func Connect(ctx context.Context, dsn string, opts Options) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= opts.MaxRetries; attempt++ {
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
			err = pool.Ping(pingCtx)
			cancel()
			if err == nil {
				log.Info().Int("attempt", attempt).Msg("database connection OK")
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", opts.MaxRetries).Msg("database connection failed")

		if attempt < opts.MaxRetries {
			delay := opts.RetryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("connection cancelled: %w", ctx.Err())
			}
		}
	}
	return nil, fmt.Errorf("failed to connect after %d attempts: %w", opts.MaxRetries, lastErr)
}
