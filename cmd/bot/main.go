package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/vlasovdm/referral-gift-bot/internal/api"
	"github.com/vlasovdm/referral-gift-bot/internal/bot"
	"github.com/vlasovdm/referral-gift-bot/internal/config"
	"github.com/vlasovdm/referral-gift-bot/internal/engine"
	"github.com/vlasovdm/referral-gift-bot/internal/storage/postgres"

	_ "github.com/lib/pq"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting application",
		slog.String("env", cfg.Env),
		slog.Int("channels", len(cfg.Bot.Channels)),
		slog.Int("gifts", len(cfg.Bot.Gifts)),
	)

	dbUrl := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Postgres.User,
		cfg.Postgres.Pass,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Db,
	)

	storage, err := postgres.New(dbUrl)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		log.Error("Failed to connect to Telegram", "error", err)
		os.Exit(1)
	}
	log.Info("Authorized on Telegram", slog.String("username", botAPI.Self.UserName))

	gifts := make([]engine.Gift, 0, len(cfg.Bot.Gifts))
	for _, g := range cfg.Bot.Gifts {
		gifts = append(gifts, engine.Gift{Key: g.Key, Name: g.Name, Price: g.Price})
	}

	eng := engine.New(log, storage, bot.NewChannelMembership(botAPI),
		cfg.Bot.Channels, cfg.Bot.ReferralReward, engine.NewCatalog(gifts))

	b := bot.New(cfg, log, botAPI, eng)

	apiServer := api.New(cfg, log, eng, []byte(cfg.Api.JwtSecret))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		apiServer.MustStart()
	}()

	go b.Run()

	<-sigChan
	log.Info("Got signal to shutdown")

	b.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Stop(ctx); err != nil {
		log.Error("Stopping admin API error", "error", err)
	}

	if err := storage.Stop(); err != nil {
		log.Error("Closing storage error", "error", err)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
	return log
}
