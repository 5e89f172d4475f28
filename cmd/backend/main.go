package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/fjod/go_cart/storefront/internal/auth"
	"github.com/fjod/go_cart/storefront/internal/config"
	grpcHandler "github.com/fjod/go_cart/storefront/internal/grpc"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/pkg/api"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		log.Fatal().Err(err).Msg("failed to load .env")
	}
	cfg, err := config.LoadBackend()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup("storefront-backend", cfg.LogLevel, cfg.LogPretty)

	repo, err := repository.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer repo.Close()

	if err := repo.RunMigrations(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("migrations completed successfully")

	authority := auth.NewAuthority(cfg.JWTSecret)
	if cfg.DevPrincipal != "" {
		token, err := authority.Issue(cfg.DevPrincipal, 24*time.Hour)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to issue development token")
		}
		log.Info().Str("principal", cfg.DevPrincipal).Str("token", token).Msg("development token issued")
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(grpcHandler.UnaryInterceptor(authority)),
	)
	api.RegisterStorefrontServer(grpcServer, grpcHandler.NewStorefrontServer(repo))

	listener, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		log.Fatal().Err(err).Str("port", cfg.GRPCPort).Msg("failed to listen")
	}

	go func() {
		log.Info().Str("port", cfg.GRPCPort).Msg("backend listening")
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatal().Err(err).Msg("failed to serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down backend")
	grpcServer.GracefulStop()
	log.Info().Msg("backend stopped")
}
