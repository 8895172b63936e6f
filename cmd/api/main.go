package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"shoppingcart/internal/config"
	"shoppingcart/internal/db"
	"shoppingcart/internal/httpserver"
	"shoppingcart/internal/logging"
	cartrepo "shoppingcart/internal/repository/cart"
	couponrepo "shoppingcart/internal/repository/coupon"
	productrepo "shoppingcart/internal/repository/product"
	"shoppingcart/internal/seed"
	cartsvc "shoppingcart/internal/service/cart"
	couponsvc "shoppingcart/internal/service/coupon"
	productsvc "shoppingcart/internal/service/product"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logging.New("api", "info").Fatalf("load config: %v", err)
	}
	logger := logging.New("api", cfg.LogLevel)

	ctx := context.Background()

	var (
		dbpool     *pgxpool.Pool
		productRepo productrepo.Repository
		couponRepo  couponrepo.Repository
	)
	if cfg.UseDatabase() {
		dbpool, err = db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer dbpool.Close()
		productRepo = productrepo.NewPostgres(dbpool, logger)
		couponRepo = couponrepo.NewPostgres(dbpool, logger)
	} else {
		logger.Warn("DB_DSN not set, serving demo catalogue and coupons from memory")
		productRepo = productrepo.NewMemory(logger)
		couponRepo = couponrepo.NewMemory(logger)
		if err := seed.Apply(ctx, productRepo, couponRepo, time.Now()); err != nil {
			logger.Fatalf("seed memory stores: %v", err)
		}
	}

	couponService := couponsvc.New(couponRepo)
	cartService := cartsvc.New(cartrepo.NewMemory(logger), productRepo, couponService)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		ProductSvc: productsvc.New(productRepo),
		CartSvc:    cartService,
		CouponSvc:  couponService,
	}, httpserver.Options{
		DB:          dbpool,
		CORSOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Errorf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	} else {
		logger.Info("server stopped")
	}
}
