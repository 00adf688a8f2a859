package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/chat"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/httpapi"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/store"
	"github.com/andreasstove999/ecommerce-system/storefront-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Service: "storefront",
		Level:   getEnv("LOG_LEVEL", "info"),
		Pretty:  getEnv("LOG_PRETTY", "") != "",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var kv store.KV
	if cfg.Ephemeral {
		kv = store.NewMemKV()
	} else {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable")
		}
		defer rdb.Close()
		kv = store.NewRedisKV(rdb, cfg.ProfileID)
	}

	carts, err := cart.NewProvider(ctx, kv, log)
	if err != nil {
		log.Fatal().Err(err).Msg("rehydrate cart")
	}

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	auth := clients.NewAuthProvider(cfg.AuthToken)
	catalog := clients.NewCatalogClient(clients.NewClient("catalog", cfg.CatalogURL, httpClient))
	orders := clients.NewOrderClient(clients.NewClient("order", cfg.OrderURL, httpClient), auth)
	payments := clients.NewPaymentClient(clients.NewClient("payment", cfg.PaymentURL, httpClient))

	coordinator := checkout.NewCoordinator(carts, kv, payments, orders, auth, cfg.PaymentReturnURL, log)

	hub := chat.NewHub(log)
	go hub.Run(ctx)

	mux := httpapi.NewRouter(httpapi.Deps{
		Carts:    carts,
		Checkout: coordinator,
		Catalog:  catalog,
		Orders:   orders,
		Auth:     auth,
		Chat:     hub,
		Logger:   log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("profile", cfg.ProfileID).Msg("storefront listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
