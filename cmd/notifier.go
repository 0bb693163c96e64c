/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Impulsible/eventease-planner/config"
	"github.com/Impulsible/eventease-planner/internal/mq"
)

// notifierCmd runs the notification worker: it consumes invitation and RSVP
// messages from the broker and delivers them. Delivery is currently a log
// line; a mail sender would slot in behind the same handler.
var notifierCmd = &cobra.Command{
	Use:   "notifier",
	Short: "Runs the notification worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if cfg.Notify.Backend == "" {
			fmt.Fprintln(os.Stderr, "NOTIFY_BACKEND is not configured")
			os.Exit(1)
		}

		broker, err := mq.NewFromConfig(cmd.Context(), cfg.Notify)
		if err != nil {
			return fmt.Errorf("init notify backend: %w", err)
		}
		defer broker.Close()

		group, ctx := errgroup.WithContext(cmd.Context())
		for _, channel := range []string{"invitations", "rsvps"} {
			group.Go(func() error {
				return broker.Subscribe(ctx, channel, logDelivery(channel))
			})
		}
		return group.Wait()
	},
}

func logDelivery(channel string) mq.Handler {
	return func(ctx context.Context, msg mq.Message) error {
		var payload map[string]any
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			log.Printf("notifier: drop undecodable message %s on %s: %v", msg.ID, channel, err)
			return nil
		}
		log.Printf("notifier: %s %s: %v", channel, msg.Attributes["kind"], payload)
		return nil
	}
}

func init() {
	rootCmd.AddCommand(notifierCmd)
}
