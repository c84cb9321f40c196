package testing

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type MinIOContainer struct {
	Container testcontainers.Container
	// Endpoint is host:port without a scheme, as minio.New expects.
	Endpoint  string
	AccessKey string
	SecretKey string
}

type MinIOConfig struct {
	Image     string
	AccessKey string
	SecretKey string
}

func DefaultMinIOConfig() MinIOConfig {
	return MinIOConfig{
		Image:     "minio/minio:RELEASE.2024-12-18T13-15-44Z",
		AccessKey: "openqa",
		SecretKey: "openqa-secret",
	}
}

// NewMinIOContainer starts a single node MinIO server and terminates it on test cleanup.
func NewMinIOContainer(ctx context.Context, tb testing.TB, cfg MinIOConfig) *MinIOContainer {
	tb.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        cfg.Image,
			Cmd:          []string{"server", "/data"},
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     cfg.AccessKey,
				"MINIO_ROOT_PASSWORD": cfg.SecretKey,
			},
			WaitingFor: wait.ForHTTP("/minio/health/live").
				WithPort("9000/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		tb.Fatalf("start minio container: %v", err)
	}
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			tb.Logf("terminate minio container: %v", err)
		}
	})

	endpoint, err := container.PortEndpoint(ctx, "9000/tcp", "")
	if err != nil {
		tb.Fatalf("resolve minio endpoint: %v", err)
	}

	return &MinIOContainer{
		Container: container,
		Endpoint:  endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
	}
}
