package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/xrpzip/walletd/internal/account"
	"github.com/xrpzip/walletd/internal/infra/gateway/coingecko"
	"github.com/xrpzip/walletd/internal/infra/gateway/xrpl"
	"github.com/xrpzip/walletd/internal/infra/postgres"
	"github.com/xrpzip/walletd/internal/infra/redis"
	"github.com/xrpzip/walletd/internal/payment"
	"github.com/xrpzip/walletd/internal/price"
	"github.com/xrpzip/walletd/internal/showcase"
	"github.com/xrpzip/walletd/internal/transport/httpapi"
	"github.com/xrpzip/walletd/internal/transport/httpapi/handler"
	"github.com/xrpzip/walletd/internal/transport/httpapi/middleware"
	"github.com/xrpzip/walletd/internal/wallet"
	"github.com/xrpzip/walletd/pkg/config"
	"github.com/xrpzip/walletd/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewDefault(cfg.Env)
	log.Info("starting walletd", "env", cfg.Env, "port", cfg.Port)

	// Database connection pool.
	db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()
	log.Info("connected to postgres")

	// Redis is used for the two-tier price cache.
	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	log.Info("connected to redis")

	// Price pipeline: CoinGecko behind a circuit breaker, cached in redis.
	priceProvider := coingecko.NewClient(cfg.CoinGeckoAPIKey)
	priceCache := redis.NewPriceCache(redisClient, log)
	priceService := price.NewService(priceProvider, priceCache, log)

	priceUpdater := price.NewUpdater(priceService, cfg.PriceRefreshInterval, log)
	go priceUpdater.Run(ctx)

	// XRPL node connection. Startup does not fail if the node is down;
	// the client reconnects on demand.
	ledgerClient := xrpl.NewClient(cfg.LedgerWSURL, log).WithRequestTimeout(cfg.RequestTimeout)
	defer ledgerClient.Close()
	if err := ledgerClient.Connect(ctx); err != nil {
		log.Warn("xrpl node unreachable at startup", "error", err)
	}
	historyAdapter := xrpl.NewHistoryAdapter(ledgerClient, log)
	paymentAdapter := xrpl.NewPaymentAdapter(ledgerClient)

	// Wallet service with sealed seed storage and in-memory sessions.
	sealer := wallet.NewSealer(cfg.SealKey)
	sessions := wallet.NewSessionManager()
	walletRepo := postgres.NewWalletRepository(db.Pool)
	walletService := wallet.NewService(walletRepo, sealer, sessions, log)

	accountService := account.NewService(ledgerClient, historyAdapter, priceService, cfg.LedgerTxLimit, log)
	paymentService := payment.NewService(paymentAdapter, log)
	showcaseService := showcase.NewService(priceService, log)

	jwtService := middleware.NewJWTService(cfg.JWTSecret)

	router := httpapi.NewRouter(httpapi.Config{
		Logger:          log,
		AllowedOrigins:  cfg.AllowedOrigins,
		WalletHandler:   handler.NewWalletHandler(walletService, jwtService, log),
		AccountHandler:  handler.NewAccountHandler(accountService, walletService, log),
		PaymentHandler:  handler.NewPaymentHandler(paymentService, walletService, log),
		PriceHandler:    handler.NewPriceHandler(priceService),
		ShowcaseHandler: handler.NewShowcaseHandler(showcaseService),
		HealthHandler:   handler.NewHealthHandler(db),
		JWTMiddleware:   middleware.JWTMiddleware(jwtService),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("stopped")
	return nil
}
