package storage

import (
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/cms-console/internal/config"
)

// Backends carries the connections a durable driver may need.
type Backends struct {
	Redis    *redis.Client
	Postgres *sql.DB
}

// OpenDurable builds the durable store selected by cfg.Driver, sealed when a
// seal key is configured.
func OpenDurable(cfg config.StorageConfig, b Backends) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverFile:
		store, err = NewFileStore(cfg.FilePath)
	case config.DriverRedis:
		if b.Redis == nil {
			return nil, fmt.Errorf("redis driver selected but no client configured")
		}
		store = NewRedisStore(b.Redis, cfg.RedisPrefix)
	case config.DriverPostgres:
		store, err = NewPostgresStore(b.Postgres)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.SealKey == "" {
		return store, nil
	}
	return NewSealedStore(store, cfg.SealKey)
}
