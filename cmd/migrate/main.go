package main

// Run database migrations:
//   go run ./cmd/migrate --command up

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/pflag"

	"resume-maker/internal/shared/config"
	"resume-maker/internal/shared/storage/db"
	"resume-maker/internal/shared/telemetry"
)

func main() {
	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	command := flagSet.String("command", "up", "goose command: up, down or status")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		telemetry.Error("migrate.config", map[string]any{"error": err})
		os.Exit(1)
	}
	telemetry.Init(cfg.LogLevel)
	ctx := context.Background()

	pool := db.MigratePool(cfg.DB)
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, pool)
	if err != nil {
		telemetry.Error("migrate.connect", map[string]any{"error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, *command); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": *command, "error": err})
		sqlDB.Close()
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"command": *command})
}
