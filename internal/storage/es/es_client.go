package es

import (
	"github.com/Priyanshi1908/openQA.ai/internal/apperr"
	"github.com/elastic/go-elasticsearch/v8"
)

const DefaultIndexName = "qa_report"

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	if len(config.Addresses) == 0 {
		return nil, apperr.NewConfig("elasticsearch addresses are empty")
	}

	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	return elasticsearch.NewTypedClient(cfg)
}
