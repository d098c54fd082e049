package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/orders/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/kafka"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/repository/postgresql"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/server"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/service"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logger.New()
	defer func() {
		_ = log.Sync()
	}()

	cfg := config.New()

	database, err := db.NewDb(ctx, cfg)
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		log.Fatal("schema migration failed", zap.Error(err))
	}

	orderRepo := postgresql.NewOrderRepo(database)
	outboxRepo := postgresql.NewOutboxTaskRepo()

	var producer kafka.Producer
	if cfg.KafkaBrokers != "" {
		producer = kafka.NewWriterProducer(cfg.KafkaBrokers)
	} else {
		producer = kafka.NewConsoleProducer(log)
	}

	publisher := kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval: time.Second,
		BatchSize:    50,
		MaxAttempts:  5,
	}, log)
	go publisher.Run(ctx)

	svc := service.New(database, orderRepo, outboxRepo, cfg.KafkaTopic, log)
	srv := server.New(svc, log)

	go func() {
		if err := srv.Run(cfg.HTTPPort); err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	publisher.Shutdown()

	log.Info("stopped")
}
