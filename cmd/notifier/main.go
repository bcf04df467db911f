package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"dinebook/pkg/config"
	"dinebook/pkg/kafka"
	kafka_config "dinebook/pkg/kafka/config"
	"dinebook/pkg/logger"
)

const (
	ServiceName   = "notifier"
	consumerGroup = "dinebook-notifier"
)

// The notifier tails the booking and place event streams and logs each event.
// It stands in for the downstream channel (email, SMS) that would consume
// these events in production.
func main() {
	cfg := config.Load(ServiceName)

	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Fatal("KAFKA_BROKERS must be set for the notifier")
	}

	kcfg := kafka_config.Load(cfg.KafkaBrokers)

	bookingConsumer, err := kafka.NewConsumer(kcfg, cfg.BookingEventsTopic, consumerGroup, logEvent(cfg.Log, "booking"))
	if err != nil {
		cfg.Log.Fatal("Failed to create booking events consumer", "error", err)
	}
	placeConsumer, err := kafka.NewConsumer(kcfg, cfg.PlaceEventsTopic, consumerGroup, logEvent(cfg.Log, "place"))
	if err != nil {
		cfg.Log.Fatal("Failed to create place events consumer", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	for _, c := range []*kafka.Consumer{bookingConsumer, placeConsumer} {
		wg.Add(1)
		go func(c *kafka.Consumer) {
			defer wg.Done()
			if err := c.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				cfg.Log.Error("Consumer stopped", "error", err)
			}
		}(c)
	}

	cfg.Log.Info("Notifier started",
		"brokers", cfg.KafkaBrokers,
		"topics", []string{cfg.BookingEventsTopic, cfg.PlaceEventsTopic},
	)

	<-ctx.Done()
	cfg.Log.Info("Shutdown signal received")

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		if err := bookingConsumer.Close(); err != nil {
			cfg.Log.Error("Failed to close booking events consumer", "error", err)
		}
		if err := placeConsumer.Close(); err != nil {
			cfg.Log.Error("Failed to close place events consumer", "error", err)
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		cfg.Log.Info("Notifier stopped gracefully")
	case <-closeCtx.Done():
		cfg.Log.Error("Timed out waiting for consumers to stop")
	}
}

func logEvent(log *logger.Logger, stream string) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var payload map[string]any
		if err := msg.DecodeValue(&payload); err != nil {
			log.Error("Failed to decode event payload",
				"stream", stream,
				"event_id", msg.GetEventID(),
				"error", err,
			)
			return nil // malformed payloads are not retryable
		}

		log.Info("Event received",
			"stream", stream,
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"key", msg.Key,
			"payload", payload,
		)
		return nil
	}
}
