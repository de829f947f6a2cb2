package store

import (
	"context"
	"fmt"
	"strings"
)

// Options selects and configures a Backend.
type Options struct {
	Kind string // memory, sqlite, redis or postgres

	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PostgresDSN string
}

// Open creates the Backend named by opts.Kind.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch strings.ToLower(opts.Kind) {
	case "memory":
		return NewMemoryBackend(), nil
	case "", "sqlite":
		if opts.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite cache backend requires a path")
		}
		return NewSQLiteBackend(opts.SQLitePath)
	case "redis":
		return NewRedisBackend(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case "postgres":
		if opts.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres cache backend requires a dsn")
		}
		return NewPostgresBackend(ctx, opts.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Kind)
	}
}
