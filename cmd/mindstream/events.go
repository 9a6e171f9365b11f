package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/feiaaa1/mindstream/internal/config"
	"github.com/feiaaa1/mindstream/pkg/messaging"
)

func eventsCmd() *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow task events published on Redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			defer func() { _ = cfg.Logger.Sync() }()

			if channel == "" {
				channel = cfg.Redis.EventChannel
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := messaging.Dial(ctx, &redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if err != nil {
				return err
			}
			rc := messaging.NewRedisClient(client)
			defer rc.Close()

			messages, err := rc.Subscribe(ctx, channel)
			if err != nil {
				return err
			}
			cfg.Logger.Info("Listening for events", zap.String("channel", channel))

			for msg := range messages {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
					msg.Time.Format("15:04:05"), msg.Channel, msg.Payload)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "Redis channel (defaults to redis.event_channel)")

	return cmd
}
