package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medbook/booking/internal/domain/appointment"
	"github.com/medbook/booking/internal/domain/notification"
	"github.com/medbook/booking/internal/domain/user"
	"github.com/medbook/booking/internal/platform/notify"
)

func notifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "E-mail pending notifications",
		Long: "Sends every pending notification once and marks it sent or failed. " +
			"With --schedule (or NOTIFY_SCHEDULE) it keeps running and repeats on the cron schedule.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			logger := newLogger(cfg.Env, cfg.LogLevel)

			if err := cfg.ValidateSMTP(); err != nil {
				return err
			}
			sender := notify.NewSMTPSender(notify.SMTPConfig{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				Username: cfg.SMTPUsername,
				Password: cfg.SMTPPassword,
				From:     cfg.SMTPFrom,
			})
			d := notification.NewDispatcher(
				notification.NewRepoPG(pool),
				appointment.NewRepoPG(pool),
				user.NewRepoPG(pool),
				sender,
				notify.NewTemplateEngine(),
				logger,
			)

			schedule, _ := cmd.Flags().GetString("schedule")
			if schedule == "" {
				schedule = cfg.NotifySchedule
			}
			if schedule == "" {
				return dispatchOnce(ctx, d, logger)
			}
			return dispatchOnSchedule(ctx, d, schedule, logger)
		},
	}
	cmd.Flags().String("schedule", "", "Cron expression to repeat dispatch on, e.g. \"*/5 * * * *\"")
	return cmd
}

func dispatchOnce(ctx context.Context, d *notification.Dispatcher, logger zerolog.Logger) error {
	res, err := d.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}
	logger.Info().Int("sent", res.Sent).Int("failed", res.Failed).Msg("notification dispatch complete")
	return nil
}

// dispatchOnSchedule runs the dispatcher on every tick until ctx is
// cancelled. A failing run is logged and the next tick tries again.
func dispatchOnSchedule(ctx context.Context, d *notification.Dispatcher, schedule string, logger zerolog.Logger) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() {
		if err := dispatchOnce(ctx, d, logger); err != nil {
			logger.Error().Err(err).Msg("scheduled notification dispatch failed")
		}
	}); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	c.Start()
	logger.Info().Str("schedule", schedule).Msg("notification dispatcher started")

	<-ctx.Done()
	logger.Info().Msg("stopping notification dispatcher")
	<-c.Stop().Done()
	return nil
}
