package bot

import (
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vlasovdm/referral-gift-bot/internal/config"
	"github.com/vlasovdm/referral-gift-bot/internal/engine"
)

// Bot routes inbound commands and button presses to the engine and renders
// the results. The bot username is captured once at construction and never
// changes afterwards.
type Bot struct {
	config   *config.Config
	logger   *slog.Logger
	api      *tgbotapi.BotAPI
	engine   *engine.Engine
	username string
}

func New(cfg *config.Config, logger *slog.Logger, api *tgbotapi.BotAPI, eng *engine.Engine) *Bot {
	return &Bot{
		config:   cfg,
		logger:   logger,
		api:      api,
		engine:   eng,
		username: api.Self.UserName,
	}
}

// Run consumes the long-polling update feed until Stop is called. Updates are
// handled concurrently; the store-level conditional updates keep compound
// mutations safe under interleaving.
func (b *Bot) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Bot started", slog.String("username", b.username))

	for update := range updates {
		go b.handleUpdate(update)
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	b.logger.Info("Bot stopped")
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		switch update.Message.Command() {
		case "start":
			b.handleStart(update.Message)
		case "admin":
			b.handleAdminStats(update.Message)
		}
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}
