package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/fjod/go_cart/storefront/internal/auth"
	"github.com/fjod/go_cart/storefront/internal/backend"
	"github.com/fjod/go_cart/storefront/internal/config"
	h "github.com/fjod/go_cart/storefront/internal/http"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/sessionstore"
	"github.com/fjod/go_cart/storefront/internal/storefront"
)

const sweepInterval = time.Minute

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		log.Fatal().Err(err).Msg("failed to load .env")
	}
	cfg, err := config.LoadStorefront()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup("storefront", cfg.LogLevel, cfg.LogPretty)

	conn, err := backend.Dial(cfg.BackendAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.BackendAddr).Msg("failed to connect to backend")
	}
	defer conn.Close()

	connector := backend.NewConnector(conn, backend.Options{
		Timeout:            cfg.RPCTimeout,
		BreakerMaxFailures: cfg.BreakerMaxFailures,
		BreakerOpenTimeout: cfg.BreakerOpenTimeout,
	})

	var store sessionstore.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis connection failed")
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("session records kept in redis")
		store = sessionstore.NewRedisStore(redisClient, cfg.SessionTTL)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, session records kept in memory")
		store = sessionstore.NewMemoryStore(cfg.SessionTTL)
	}

	registry := storefront.NewRegistry(storefront.Deps{
		Provider:       session.NewJWTProvider(auth.NewAuthority(cfg.JWTSecret)),
		Factory:        connector,
		StaleTime:      cfg.StaleTime,
		AllowAnonymous: cfg.AllowAnonymous,
	}, store)
	limiter := h.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go sweep(ctx, registry, limiter, cfg.SessionTTL)

	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: h.NewRouter(registry, h.Options{
			RequestTimeout:     cfg.RequestTimeout,
			MaxRequestBodySize: 1 << 20,
			TrustProxyHeaders:  cfg.TrustProxyHeaders,
			Limiter:            limiter,
		}),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("backend", cfg.BackendAddr).Msg("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

// sweep drops idle sessions and rate limiters from memory. Session records
// stay in the store until their TTL.
func sweep(ctx context.Context, registry *storefront.Registry, limiter *h.RateLimiter, idle time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions := registry.Sweep(idle)
			limiters := limiter.Cleanup(idle)
			if sessions > 0 || limiters > 0 {
				log.Debug().Int("sessions", sessions).Int("limiters", limiters).Msg("swept idle sessions")
			}
		}
	}
}
