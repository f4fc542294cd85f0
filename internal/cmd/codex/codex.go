// Package codex parses codex command flags and runs the MCP server.
package codex

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/lorekeep/chronicle/internal/platform/config"
	"github.com/lorekeep/chronicle/internal/platform/otel"
	"github.com/lorekeep/chronicle/internal/services/codex/app"
)

// Config holds codex command configuration.
type Config struct {
	StoragePath string `env:"CHRONICLE_CODEX_DB_PATH" envDefault:"chronicle.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.StoragePath, "db", cfg.StoragePath, "SQLite database file path")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the codex MCP server on stdio.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "codex")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	server, err := app.New(app.Config{StoragePath: cfg.StoragePath})
	if err != nil {
		return err
	}
	defer func() {
		if err := server.Close(); err != nil {
			log.Printf("close codex server: %v", err)
		}
	}()

	return server.Serve(ctx)
}
