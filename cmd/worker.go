package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/expense-tracker/internal/messaging"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers that react to domain events.`,
}

var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Consume forwarded domain events",
	Long:  `Consume domain events from the configured RabbitMQ queue and log them.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := startEventWorker(); err != nil {
			fmt.Fprintf(os.Stderr, "Event worker error: %v\n", err)
			os.Exit(1)
		}
	},
}

func startEventWorker() error {
	config, lg := mustLoad()
	if !config.Events.Enabled() {
		return fmt.Errorf("events.amqp_url is not configured")
	}

	client, err := messaging.Dial(config.Events.AMQPURL, config.Events.Exchange, config.Events.Queue, lg)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg.Info("event worker is running. Press Ctrl+C to stop.", "queue", config.Events.Queue)

	return client.Consume(ctx, func(ctx context.Context, msg messaging.Message) error {
		lg.Info("received event",
			"event_id", msg.ID,
			"event_type", msg.Type,
			"occurred_at", msg.OccurredAt,
			"payload", msg.Data)
		return nil
	})
}

func init() {
	workerCmd.AddCommand(eventWorkerCmd)
}
