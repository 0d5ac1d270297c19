package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads dotenv files into the process environment. Missing files
// are skipped, and variables already set are never overridden, so earlier
// paths take precedence over later ones.
func LoadEnv(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if fi, err := os.Stat(p); err != nil || fi.IsDir() {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			slog.Warn("skipping unreadable env file", slog.String("path", p), slog.Any("err", err))
			continue
		}
		slog.Debug("loaded env file", slog.String("path", p))
	}
}

// DefaultEnvFiles lists YTNOTE_ENV, ~/.ytnote.env, the skill's .env and
// ./.env, in precedence order.
func DefaultEnvFiles() []string {
	var paths []string
	if p := strings.TrimSpace(os.Getenv("YTNOTE_ENV")); p != "" {
		paths = append(paths, p)
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".ytnote.env"),
			filepath.Join(home, ".claude", "skills", "youtube-note", ".env"),
		)
	}
	return append(paths, ".env")
}

func LoadDefaultEnv() {
	LoadEnv(DefaultEnvFiles()...)
}
