package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/contract-portal/internal/audit"
	"github.com/frahmantamala/contract-portal/internal/core/events"
	"github.com/frahmantamala/contract-portal/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage events: publish test events and list the domain event types`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event through the audit subscriber for debugging`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(args[0])
	},
}

var listEventsCmd = &cobra.Command{
	Use:   "list",
	Short: "List domain event types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range events.AllTypes {
			fmt.Println(t)
		}
	},
}

var eventData string

func publishTestEvent(eventType string) error {
	known := false
	for _, t := range events.AllTypes {
		if t == eventType {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown event type %q (see `event list`)", eventType)
	}

	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)
	audit.NewLogger(lg).Register(eventBus)

	testEvent := events.NewEvent(eventType, map[string]interface{}{
		"message": eventData,
		"source":  "cli-command",
	})

	lg.Info("publishing test event", "event_type", eventType, "event_id", testEvent.ID)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := eventBus.Publish(ctx, testEvent); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	eventBus.Wait()
	lg.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")

	eventCmd.AddCommand(publishEventCmd)
	eventCmd.AddCommand(listEventsCmd)

	rootCmd.AddCommand(eventCmd)
}
