package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"verify-gateway/internal/admin"
	jwttoken "verify-gateway/internal/jwt_token"
	"verify-gateway/internal/platform/config"
	"verify-gateway/internal/platform/httpserver"
	"verify-gateway/internal/platform/logger"
	"verify-gateway/internal/platform/metrics"
	"verify-gateway/internal/platform/middleware"
	"verify-gateway/internal/provider"
	"verify-gateway/internal/session"
	httptransport "verify-gateway/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	m := metrics.New(prometheus.DefaultRegisterer)

	store := session.NewInMemoryStore()
	providerClient := provider.NewHTTPClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, log)
	sessions := session.NewService(store, providerClient, cfg.ProviderMode, cfg.PublicBaseURL, log, m)

	tokens := jwttoken.NewService(cfg.SigningSecret)
	adminService := admin.NewService(cfg.AdminEmail, cfg.AdminPassword, tokens, log, m)
	requireAdmin := middleware.RequireAdmin(tokens, cfg.AdminEmail, log)

	router := httptransport.NewRouter(
		httptransport.NewSessionHandler(sessions, log),
		httptransport.NewAdminHandler(adminService, sessions, requireAdmin, log),
		log,
		"public",
	)
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting verify-gateway",
		"addr", cfg.Addr,
		"mode", cfg.ProviderMode,
		"public_base_url", cfg.PublicBaseURL,
	)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err.Error())
		os.Exit(1)
	}
}
