package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"xalqbahosi/internal/database"
	"xalqbahosi/internal/storage"
)

// seed loads the demo locations, announcements and the review categories
// into the remote store. Collections that already have documents are skipped.
func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Error("DATABASE_URL is empty")
		os.Exit(1)
	}

	db, err := database.Connect(dsn)
	if err != nil {
		logger.Error("DB connection failed", "error", err)
		os.Exit(1)
	}
	remote, err := storage.NewDocumentBackend(db, logger)
	if err != nil {
		logger.Error("init document store", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := remote.Seed(ctx, storage.DemoSeed(time.Now()))
	if err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seed complete",
		"locations", res.Locations,
		"categories", res.Categories,
		"announcements", res.Announcements,
	)
}
