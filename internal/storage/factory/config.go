package factory

import (
	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
	"github.com/Priyanshi1908/openQA.ai/internal/storage"
	"github.com/Priyanshi1908/openQA.ai/internal/storage/es"
	"github.com/Priyanshi1908/openQA.ai/internal/storage/pg"
)

type SinkConfig struct {
	storage.Type
	Pg *pg.PoolConfig
	Es *es.ClientConfig
}

func (c SinkConfig) Validate() error {
	if c.Type == "" {
		return nil
	}
	if !c.Type.Valid() {
		return apperr.NewConfigf("invalid sink type %q, expected one of %v", c.Type, storage.Types)
	}

	switch c.Type {
	case storage.PG:
		if c.Pg == nil || c.Pg.ConnStr == "" {
			return apperr.NewConfig("postgres connection string is not set")
		}
	case storage.ES:
		if c.Es == nil || len(c.Es.Addresses) == 0 {
			return apperr.NewConfig("elasticsearch configuration is incomplete: addresses are missing")
		}
	}
	return nil
}
