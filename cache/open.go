package cache

import (
	"fmt"

	"github.com/use-agent/pagefields/config"
)

// Backend is a Store the server owns for its whole lifetime.
type Backend interface {
	Store
	Counter
	Close() error
}

// Open builds the backend selected by cfg.Backend.
func Open(cfg config.CacheConfig) (Backend, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(cfg.MaxEntries, cfg.TTL), nil
	case "sqlite":
		return OpenSQLite(cfg.Path, cfg.TTL)
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", cfg.Backend)
	}
}
