package env

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from .env files. Variables already
// set in the process win. ENV_PATH, when set, replaces the given paths.
func LoadDotEnv(env string, paths ...string) error {
	if p := os.Getenv("ENV_PATH"); p != "" {
		paths = []string{p}
	} else {
		slog.Debug("ENV_PATH is not set, using default paths", "paths", paths)
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}

	if len(existing) == 0 {
		if env == "local" || env == "" {
			slog.Info("No .env file found, relying on process environment", "paths", paths)
			return nil
		}
		slog.Debug("Skipping .env ...")
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		slog.Error("Failed to load environment variables", "error", err, "paths", existing)
		return err
	}

	return nil
}
