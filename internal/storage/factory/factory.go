package factory

import (
	"context"
	"fmt"

	"github.com/Priyanshi1908/openQA.ai/internal/storage"
	"github.com/Priyanshi1908/openQA.ai/internal/storage/es"
	"github.com/Priyanshi1908/openQA.ai/internal/storage/in_mem"
	"github.com/Priyanshi1908/openQA.ai/internal/storage/pg"
)

// NewSink creates a storage.Sink based on the configured type.
// An empty type behaves like storage.None.
func NewSink(ctx context.Context, cfg SinkConfig) (storage.Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return pg.NewSink(pool), nil

	case storage.ES:
		sink, err := es.NewSink(ctx, *cfg.Es)
		if err != nil {
			return nil, err
		}
		return sink, nil

	case storage.InMem:
		return in_mem.NewSink(), nil

	case storage.None, "":
		return storage.Discard{}, nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedSink), cfg.Type)
	}
}
