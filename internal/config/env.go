package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env files from dir. Variables already present in the
// process environment are never overridden.
func loadEnvFiles(dir string) {
	for _, name := range envFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			slog.Warn("Failed to load env file", slog.String("file", p), slog.String("error", err.Error()))
			continue
		}
		slog.Debug("Loaded environment variables", slog.String("file", p))
	}
}
