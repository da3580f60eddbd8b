package main

// Apply or inspect the document schema:
//   go run ./cmd/migrate               # up
//   go run ./cmd/migrate -cmd status
//   DATABASE_URL=sqlite://./data/docs.db go run ./cmd/migrate -cmd version

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"docstore/internal/shared/config"
	"docstore/internal/shared/storage/db"
	"docstore/internal/shared/telemetry"
)

func main() {
	command := flag.String("cmd", "up", "goose command: up, down, status or version")
	flag.Parse()

	if err := run(*command); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": *command, "error": err.Error()})
		os.Exit(1)
	}
}

func run(command string) error {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, command); err != nil {
		return err
	}
	telemetry.Info("migrate.done", map[string]any{"command": command, "driver": sqlDB.DriverName()})
	return nil
}
