package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/orders/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/logger"
)

const groupID = "order-events-consumer-group"

// Reads the order events topic and logs every event. Useful for watching
// what the outbox publisher ships.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logger.New()
	defer func() {
		_ = log.Sync()
	}()

	cfg := config.New()
	if cfg.KafkaBrokers == "" {
		log.Fatal("KAFKA_BROKERS is not set")
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(cfg.KafkaBrokers, ","),
		GroupID:        groupID,
		Topic:          cfg.KafkaTopic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		if err := r.Close(); err != nil {
			log.Error("error closing reader", zap.Error(err))
		}
	}()

	log.Info("consumer connected",
		zap.String("topic", cfg.KafkaTopic),
		zap.String("brokers", cfg.KafkaBrokers))

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("error reading message", zap.Error(err))
			time.Sleep(5 * time.Second)
			continue
		}

		log.Info("order event received",
			zap.Time("timestamp", m.Time),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.ByteString("key", m.Key),
			zap.ByteString("value", m.Value))
	}
}
