package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/orders/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/intake"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/orders/internal/telegram"
)

const (
	pollTimeoutSec  = 30
	sessionTTL      = 30 * time.Minute
	cleanupInterval = 5 * time.Minute
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logger.New()
	defer func() {
		_ = log.Sync()
	}()

	cfg := config.New()
	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN is not set")
	}

	bot := telegram.NewClient(cfg.TelegramAPIURL, cfg.BotToken)

	sessions := intake.NewSessionStore(sessionTTL, log)
	sessions.StartCleanup(ctx, cleanupInterval)

	form := intake.NewForm(sessions, intake.NewAPIClient(cfg.OrdersAPIURL), log)

	log.Info("bot started", zap.String("api_url", cfg.OrdersAPIURL))

	var offset int64
	for {
		select {
		case <-ctx.Done():
			log.Info("bot stopped")
			return
		default:
		}

		updates, err := bot.GetUpdates(ctx, offset, pollTimeoutSec)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("bot stopped")
				return
			}
			log.Error("get updates failed", zap.Error(err))
			time.Sleep(5 * time.Second)
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message == nil || update.Message.Text == "" {
				continue
			}

			chatID := update.Message.Chat.ID
			text := update.Message.Text

			var reply string
			if strings.HasPrefix(text, "/start") {
				reply = form.HandleStart(chatID)
			} else {
				reply = form.HandleText(ctx, chatID, text)
			}

			if err := bot.SendMessage(ctx, chatID, reply); err != nil {
				log.Error("send message failed", zap.Int64("chat_id", chatID), zap.Error(err))
			}
		}
	}
}
