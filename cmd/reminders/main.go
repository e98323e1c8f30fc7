package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/config"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/db"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/logging"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/notification"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/reminder"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/settings"
	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/telemetry"
)

type options struct {
	configPath string
	date       string
	timeout    time.Duration
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:          "reminders",
		Short:        "Send day-before and same-day ANC visit reminders once",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	rootCmd.Flags().StringVar(&opts.configPath, "config", "", "optional YAML config file")
	rootCmd.Flags().StringVar(&opts.date, "date", "", "treat this date (YYYY-MM-DD) as today instead of the clinic's current date")
	rootCmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Minute, "maximum run time")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("reminder job failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log, "maternal-care-reminders")
	log.Info().Msg("ANC Reminder Job - Starting")

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	var metrics *telemetry.Metrics
	if provider, err := telemetry.InitProvider(ctx, cfg.Telemetry); err != nil {
		log.Warn().Err(err).Msg("telemetry disabled")
	} else {
		defer func() {
			flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer flushCancel()
			provider.Shutdown(flushCtx)
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

	// SMS requests travel through the broker, so a run without it would
	// record reminders whose texts were never queued.
	publisher, err := messaging.NewPublisher(cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("broker unavailable: %w", err)
	}
	defer publisher.Close()

	dispatcher := reminder.NewDispatcher(reminder.Deps{
		Store:         reminder.NewRepository(database),
		Notifications: notification.NewRepository(database),
		SMS:           messaging.NewQueueSender(publisher),
		Settings:      settings.NewService(settings.NewRepository(database), cfg.Timezone),
		Publisher:     publisher,
		Metrics:       metrics,
	})

	var result reminder.Result
	if opts.date != "" {
		result, err = dispatcher.RunForDate(ctx, opts.date)
	} else {
		result, err = dispatcher.Run(ctx, time.Now())
	}
	if err != nil {
		return err
	}

	log.Info().
		Str("date", result.Date).
		Int("sent", result.Sent).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("✓ Reminder run completed")

	if result.Failed > 0 {
		return fmt.Errorf("%d reminders failed and will be retried on the next run", result.Failed)
	}
	log.Info().Msg("ANC Reminder Job - Finished")
	return nil
}
