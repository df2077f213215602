package storage

import (
	"context"
	"fmt"

	"orcafacil/internal/config"
)

// OpenKV opens the document store selected by cfg.DBDriver.
func OpenKV(ctx context.Context, cfg config.Config) (KV, error) {
	switch cfg.DBDriver {
	case "sqlite":
		db, err := Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "postgres":
		pg, err := OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case "redis":
		r, err := OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}
		return r, nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", cfg.DBDriver)
	}
}
