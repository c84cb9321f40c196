package testing

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"
)

type ESContainer struct {
	Container testcontainers.Container
	Address   string
}

// ESConfig describes the single node cluster the report index tests run against.
type ESConfig struct {
	Image          string
	StartupTimeout time.Duration
}

func DefaultESConfig() ESConfig {
	return ESConfig{
		Image:          "docker.elastic.co/elasticsearch/elasticsearch:8.12.0",
		StartupTimeout: 90 * time.Second,
	}
}

// NewESContainer starts a single Elasticsearch node and terminates it on test cleanup.
func NewESContainer(ctx context.Context, tb testing.TB, cfg ESConfig) *ESContainer {
	tb.Helper()

	container, err := elasticsearch.Run(ctx,
		cfg.Image,
		elasticsearch.WithPassword(""),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/").
				WithPort("9200").
				WithStartupTimeout(cfg.StartupTimeout),
		),
	)
	if err != nil {
		tb.Fatalf("start elasticsearch container: %v", err)
	}
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			tb.Logf("terminate elasticsearch container: %v", err)
		}
	})

	endpoint, err := container.PortEndpoint(ctx, "9200/tcp", "http")
	if err != nil {
		tb.Fatalf("resolve elasticsearch endpoint: %v", err)
	}

	return &ESContainer{
		Container: container,
		Address:   endpoint,
	}
}

// Addresses is the client address list for the running node.
func (c *ESContainer) Addresses() []string {
	return []string{c.Address}
}
