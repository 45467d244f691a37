// Package main is the database migration CLI.
//
// Usage:
//
//	migrate -cmd up
//	migrate -cmd down
//	migrate -cmd steps -n -1
//	migrate -cmd version
//	migrate -cmd force -n 3
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mydfacylita/backend/internal/infrastructure/config"
	"github.com/mydfacylita/backend/internal/infrastructure/logger"
	"github.com/mydfacylita/backend/internal/infrastructure/migration"
)

func main() {
	var (
		cmd  = flag.String("cmd", "up", "migration command: up, down, steps, version, force")
		n    = flag.Int("n", 0, "number of steps (for steps) or target version (for force)")
		path = flag.String("path", "migrations", "path to migration files")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	m, err := migration.NewFromURL(cfg.Database.DSN(), *path, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close() //nolint:errcheck

	switch *cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		if *n == 0 {
			log.Fatal("steps requires a non-zero -n")
		}
		err = m.Steps(*n)
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = m.Version()
		if err == nil {
			log.Info("Current migration version",
				zap.Uint("version", version),
				zap.Bool("dirty", dirty),
			)
		}
	case "force":
		err = m.Force(*n)
	default:
		log.Fatal("Unknown command", zap.String("cmd", *cmd))
	}

	if err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
}
