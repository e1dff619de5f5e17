// Command server runs the Travel Map Tracker API.
//
// Configuration comes from environment variables, optionally loaded from a
// .env file in the working directory:
//
//	PORT                  HTTP port (default 5000)
//	DB_PATH               sqlite file path (default data/travel_map_tracker.db)
//	JWT_SECRET            HMAC secret for access tokens
//	GOOGLE_CLIENT_ID      OAuth client ID (enables audience checking)
//	GOOGLE_CLIENT_SECRET  OAuth client secret (enables the redirect flow)
//	GOOGLE_CALLBACK_URL   OAuth redirect URI
//	CORS_ORIGINS          comma-separated allowed origins
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/joaovr/travel-map-tracker/internal/server"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := server.Config{
		Port:               envInt("PORT", 5000),
		DBPath:             envStr("DB_PATH", "data/travel_map_tracker.db"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
		CORSOrigins:        envList("CORS_ORIGINS", "http://localhost:5173"),
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-me-in-production"
		logger.Warn("JWT_SECRET not set, using an insecure development secret")
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." && cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create database directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default",
			slog.String("key", key), slog.String("value", v))
		return fallback
	}
	return n
}

func envList(key, fallback string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
