package main

import (
	"context"
	"log"
	"os"

	"waves-backend/internal/config"
	"waves-backend/internal/db"
	"waves-backend/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer func() {
		_ = database.Client().Disconnect(context.Background())
	}()

	if err := seed.Apply(ctx, database); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
