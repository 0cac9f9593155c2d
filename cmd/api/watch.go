package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/clinicdesk/internal/config"
	"github.com/jwalitptl/clinicdesk/internal/reminder"
	redisbroker "github.com/jwalitptl/clinicdesk/pkg/messaging/redis"
)

// watchCmd runs next to a serve instance that publishes reminders to redis.
// It logs each one and, when mail is configured, emails it.
func watchCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Relay published appointment reminders to the log and mail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), cfg)
		},
	}
}

func runWatch(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := newLogger(cfg)

	broker, err := redisbroker.NewRedisBroker(brokerConfig(cfg), log.Component("broker").ZL)
	if err != nil {
		return err
	}
	defer broker.Close()

	sinks := reminder.MultiSink{reminder.NewLogSink(log)}
	if cfg.Reminders.Mail.Enabled {
		sinks = append(sinks, reminder.NewMailSink(mailConfig(cfg)))
	}

	return reminder.Relay(ctx, broker, cfg.Reminders.Broker.Channel, sinks, log)
}
