package main

import (
	"context"
	"time"

	"shoppingcart/internal/config"
	"shoppingcart/internal/db"
	"shoppingcart/internal/logging"
	couponrepo "shoppingcart/internal/repository/coupon"
	productrepo "shoppingcart/internal/repository/product"
	"shoppingcart/internal/seed"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logging.New("seed", "info").Fatalf("load config: %v", err)
	}
	logger := logging.New("seed", cfg.LogLevel)
	if !cfg.UseDatabase() {
		logger.Fatal("DB_DSN is required")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	err = seed.Apply(ctx, productrepo.NewPostgres(pool, logger), couponrepo.NewPostgres(pool, logger), time.Now())
	if err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Info("seed applied")
}
