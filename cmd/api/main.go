package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/config"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/db"
	httpapi "github.com/WailSalutem-Health-Care/maternal-care-service/internal/http"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/logging"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/telemetry"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "api",
		Short:        "Maternal care clinic API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional YAML config file")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("api exited with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.RequireAuth(); err != nil {
		return err
	}
	logging.Setup(cfg.Log, httpapi.ServiceName)

	// Telemetry is optional: the service keeps running without a collector.
	var metrics *telemetry.Metrics
	provider, err := telemetry.InitProvider(ctx, cfg.Telemetry)
	if err != nil {
		log.Warn().Err(err).Msg("telemetry disabled")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("failed to flush telemetry")
			}
		}()
		if metrics, err = telemetry.InitMetrics(); err != nil {
			log.Warn().Err(err).Msg("custom metrics disabled")
		}
	}

	database, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer database.Close()

	perms, err := auth.LoadPermissions(cfg.PermissionsFile)
	if err != nil {
		return err
	}
	log.Info().Int("roles", len(perms)).Msg("✓ Permissions loaded")

	jwks, err := auth.NewJWKS(ctx, cfg.Auth.JWKSURL, cfg.Auth.RefreshInterval)
	if err != nil {
		return err
	}
	defer jwks.Close()
	verifier := auth.NewVerifier(cfg.Auth, jwks)

	// The broker is optional as well; events are dropped while it is absent.
	var publisher messaging.PublisherInterface = messaging.NoopPublisher{}
	if p, err := messaging.NewPublisher(cfg.RabbitMQURL); err != nil {
		log.Warn().Err(err).Msg("RabbitMQ unavailable, events will not be published")
	} else {
		publisher = p
		defer p.Close()
	}

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.SetupRouter(httpapi.Deps{
			DB:             database,
			Verifier:       verifier,
			Permissions:    perms,
			Publisher:      publisher,
			Metrics:        metrics,
			Timezone:       cfg.Timezone,
			AllowedOrigins: cfg.AllowedOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("timezone", cfg.Timezone.String()).Msg("✓ maternal-care-service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
