package testing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PGContainer struct {
	Container  testcontainers.Container
	ConnString string
}

// PGConfig describes the database the report row sink is tested against.
// MigrationsDir holds *.up.sql files applied in name order on startup.
type PGConfig struct {
	Image         string
	Database      string
	Username      string
	Password      string
	MigrationsDir string
}

func DefaultPGConfig() PGConfig {
	_, file, _, _ := runtime.Caller(0)
	return PGConfig{
		Image:         "postgres:17.5",
		Database:      "openqa_test_db",
		Username:      "test",
		Password:      "test",
		MigrationsDir: filepath.Join(filepath.Dir(file), "..", "..", "db", "migrations"),
	}
}

func NewPGContainer(ctx context.Context, cfg PGConfig) (*PGContainer, error) {
	script, err := migrationScript(cfg.MigrationsDir)
	if err != nil {
		return nil, err
	}
	defer os.Remove(script)

	container, err := postgres.Run(ctx,
		cfg.Image,
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
		postgres.WithInitScripts(script),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &PGContainer{
		Container:  container,
		ConnString: connStr,
	}, nil
}

// migrationScript concatenates the up migrations into one temp file and returns its path.
func migrationScript(dir string) (string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return "", fmt.Errorf("find migration files: %w", err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no migrations in %s", dir)
	}
	sort.Strings(files)

	var script strings.Builder
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return "", fmt.Errorf("read migration %s: %w", f, err)
		}
		script.Write(content)
		script.WriteString(";\n\n")
	}

	tmp, err := os.CreateTemp("", "openqa-migrations-*.sql")
	if err != nil {
		return "", fmt.Errorf("create migration script: %w", err)
	}
	if _, err := tmp.WriteString(script.String()); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write migration script: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close migration script: %w", err)
	}
	return tmp.Name(), nil
}
