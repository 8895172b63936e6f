package main

import (
	"context"
	"flag"

	"shoppingcart/internal/config"
	"shoppingcart/internal/db"
	"shoppingcart/internal/logging"
	"shoppingcart/internal/migrate"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration instead of applying all")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		logging.New("migrate", "info").Fatalf("load config: %v", err)
	}
	logger := logging.New("migrate", cfg.LogLevel)
	if !cfg.UseDatabase() {
		logger.Fatal("DB_DSN is required")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if *down {
		if err := migrate.Rollback(ctx, pool, logger); err != nil {
			logger.Fatalf("roll back migration: %v", err)
		}
		return
	}
	if err := migrate.Apply(ctx, pool, logger); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}
}
