// Command seed ensures the default category vocabulary exists.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mmynk/budgetwise/internal/config"
	"github.com/mmynk/budgetwise/internal/models"
	"github.com/mmynk/budgetwise/internal/storage/sqlite"
	"github.com/mmynk/budgetwise/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup()
		os.Exit(fail("Failed to load configuration", err))
	}
	logger := logging.Configure(cfg.Log.Level, cfg.Log.Format)

	dbPath := flag.String("db", cfg.Database.Path, "path to the sqlite database")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		os.Exit(fail("Failed to create database directory", err))
	}
	store, err := sqlite.New(*dbPath)
	if err != nil {
		os.Exit(fail("Failed to open database", err))
	}
	defer store.Close()

	ctx := context.Background()
	seeded := 0
	for _, name := range models.DefaultCategories {
		created, err := store.EnsureCategory(ctx, name, "")
		if err != nil {
			store.Close()
			os.Exit(fail("Failed to seed category", err, "category", name))
		}
		if created {
			seeded++
			logger.Info("Seeded category", "category", name)
		} else {
			logger.Info("Category already exists", "category", name)
		}
	}

	logger.Info("Seeding complete", "database", *dbPath, "seeded", seeded, "total", len(models.DefaultCategories))
}

// fail logs msg with err and returns the process exit code.
func fail(msg string, err error, args ...any) int {
	slog.Error(msg, append([]any{"error", err}, args...)...)
	return 1
}
