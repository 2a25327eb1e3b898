package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vodeneev/footballhub/internal/pkg/config"
	"github.com/Vodeneev/footballhub/internal/pkg/footballapi"
	"github.com/Vodeneev/footballhub/internal/pkg/logging"
)

const (
	defaultConfigPath = "configs/footballhub.yaml"
	serviceName       = "telegram-bot"
)

func main() {
	if err := run(); err != nil {
		slog.Error("telegram bot failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, token, allowedUsers string

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.StringVar(&token, "token", "", "Telegram bot token (or TELEGRAM_BOT_TOKEN env var, or telegram.token in config)")
	flag.StringVar(&allowedUsers, "allowed-users", "", "Comma-separated list of allowed user IDs (optional)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if _, err := logging.SetupLogger(&cfg.Logging, serviceName); err != nil {
		log.Printf("Warning: failed to setup logging: %v, continuing with default logger", err)
	}

	// Flag wins over env, env was already applied over the file by Load.
	if token != "" {
		cfg.Telegram.Token = token
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram bot token is required: set -token, TELEGRAM_BOT_TOKEN or telegram.token")
	}

	if allowedUsers != "" {
		ids, err := parseUserIDs(allowedUsers)
		if err != nil {
			return err
		}
		cfg.Telegram.AllowedUserIDs = ids
	}

	client := footballapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout, footballapi.WithUserAgent(cfg.API.UserAgent))
	defer client.CloseIdleConnections()

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}
	bot.Debug = false
	slog.Info("Authorized on account", "username", bot.Self.UserName, "backend", client.BaseURL())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := newHandler(client, cfg.Telegram.AllowedUserIDs)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = cfg.Telegram.UpdateTimeout
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			slog.Info("Telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			serve(ctx, bot, h, update.Message)
		}
	}
}

func serve(ctx context.Context, bot *tgbotapi.BotAPI, h *handler, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if _, err := bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		slog.Debug("Failed to send typing action", "chat_id", chatID, "error", err)
	}

	for _, chunk := range h.Reply(ctx, message.From.ID, message.Text) {
		if _, err := bot.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			slog.Error("Failed to send reply", "chat_id", chatID, "error", err)
			return
		}
	}
}

func parseUserIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
