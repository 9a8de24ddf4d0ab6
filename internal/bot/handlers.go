package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/skip2/go-qrcode"

	"github.com/vlasovdm/referral-gift-bot/internal/engine"
)

const (
	cbMenu      = "menu"
	cbProfile   = "profile"
	cbRef       = "ref"
	cbShop      = "shop"
	cbWithdraws = "withdraws"
	cbCheckSub  = "check_sub"

	cbBuyPrefix   = "buy:"
	cbAdminPrefix = "adm:"
)

const textTryLater = "Что-то пошло не так. Попробуй позже."

// parseReferrer extracts the referrer id from /start arguments. Anything that
// is not a positive number, or the user's own id, counts as no referrer.
func parseReferrer(args string, selfID int64) int64 {
	args = strings.TrimSpace(args)
	if args == "" {
		return 0
	}
	rid, err := strconv.ParseInt(args, 10, 64)
	if err != nil || rid <= 0 || rid == selfID {
		return 0
	}
	return rid
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	ctx := context.Background()
	userID := msg.From.ID
	username := msg.From.UserName
	referrerID := parseReferrer(msg.CommandArguments(), userID)

	if err := b.engine.RegisterUser(ctx, userID, username, referrerID); err != nil {
		b.logger.Error("Failed to register user", slog.Int64("user_id", userID), "error", err)
		b.send(tgbotapi.NewMessage(msg.Chat.ID, textTryLater))
		return
	}

	ok, err := b.engine.EnsureVerifiedAndReward(ctx, userID)
	if err != nil {
		b.logger.Error("Verification failed", slog.Int64("user_id", userID), "error", err)
		b.send(tgbotapi.NewMessage(msg.Chat.ID, textTryLater))
		return
	}
	if !ok {
		reply := tgbotapi.NewMessage(msg.Chat.ID, needSubscribeText(b.config.Bot.Channels))
		reply.ReplyMarkup = subscribeKeyboard(b.config.Bot.Channels)
		b.send(reply)
		return
	}

	b.sendProfile(ctx, msg.Chat.ID, userID, username)
}

func (b *Bot) handleAdminStats(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Нет доступа."))
		return
	}

	stats, err := b.engine.Stats(context.Background())
	if err != nil {
		b.logger.Error("Failed to load stats", "error", err)
		b.send(tgbotapi.NewMessage(msg.Chat.ID, textTryLater))
		return
	}

	b.send(tgbotapi.NewMessage(msg.Chat.ID, statsText(stats)))
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	ctx := context.Background()

	switch {
	case cb.Data == cbCheckSub:
		b.handleCheckSub(ctx, cb)
	case cb.Data == cbMenu || cb.Data == cbProfile:
		b.handleProfile(ctx, cb)
	case cb.Data == cbRef:
		b.handleRefLink(cb)
	case cb.Data == cbShop:
		b.handleShop(cb)
	case cb.Data == cbWithdraws:
		b.handleWithdraws(ctx, cb)
	case strings.HasPrefix(cb.Data, cbBuyPrefix):
		b.handleBuy(ctx, cb)
	case strings.HasPrefix(cb.Data, cbAdminPrefix):
		b.handleAdminDecision(ctx, cb)
	}
}

func (b *Bot) handleCheckSub(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	ok, err := b.engine.EnsureVerifiedAndReward(ctx, cb.From.ID)
	if err != nil {
		b.logger.Error("Verification failed", slog.Int64("user_id", cb.From.ID), "error", err)
		b.alert(cb, textTryLater)
		return
	}
	if !ok {
		b.alert(cb, "Подписка не найдена. Подпишись на все каналы и попробуй ещё раз.")
		return
	}

	b.editProfile(ctx, cb)
}

func (b *Bot) handleProfile(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	b.editProfile(ctx, cb)
}

func (b *Bot) handleRefLink(cb *tgbotapi.CallbackQuery) {
	link := fmt.Sprintf("https://t.me/%s?start=%d", b.username, cb.From.ID)

	edit := tgbotapi.NewEditMessageTextAndMarkup(
		cb.Message.Chat.ID, cb.Message.MessageID, refLinkText(link), backToMenu())
	b.send(edit)

	if b.config.Bot.QrEnabled {
		png, err := qrcode.Encode(link, qrcode.Medium, 256)
		if err != nil {
			b.logger.Error("Failed to render QR code", "error", err)
		} else {
			photo := tgbotapi.NewPhoto(cb.Message.Chat.ID, tgbotapi.FileBytes{Name: "referral.png", Bytes: png})
			b.send(photo)
		}
	}

	b.answer(cb, "")
}

func (b *Bot) handleShop(cb *tgbotapi.CallbackQuery) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		cb.Message.Chat.ID, cb.Message.MessageID,
		"🛒 *Магазин*\n\nВыбери подарок для обмена:",
		shopKeyboard(b.engine.Catalog().Gifts()))
	edit.ParseMode = tgbotapi.ModeMarkdown
	b.send(edit)
	b.answer(cb, "")
}

func (b *Bot) handleWithdraws(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	items, err := b.engine.ListWithdraws(ctx, cb.From.ID, b.config.Bot.WithdrawsLimit)
	if err != nil {
		b.logger.Error("Failed to list withdraws", slog.Int64("user_id", cb.From.ID), "error", err)
		b.alert(cb, textTryLater)
		return
	}

	text := "📦 *Мои выводы*\n\nПока нет заявок."
	if len(items) > 0 {
		text = withdrawsListText(items)
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(
		cb.Message.Chat.ID, cb.Message.MessageID, text, backToMenu())
	edit.ParseMode = tgbotapi.ModeMarkdown
	b.send(edit)
	b.answer(cb, "")
}

func (b *Bot) handleBuy(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	key := strings.TrimPrefix(cb.Data, cbBuyPrefix)

	id, err := b.engine.CreateWithdraw(ctx, cb.From.ID, key)
	switch {
	case errors.Is(err, engine.ErrUnknownGift):
		b.alert(cb, "Товар не найден.")
		return
	case errors.Is(err, engine.ErrUserNotFound):
		b.alert(cb, "Напиши /start")
		return
	case errors.Is(err, engine.ErrInsufficientBalance):
		b.alert(cb, "Недостаточно койнов 😕")
		return
	case err != nil:
		b.logger.Error("Failed to create withdraw", slog.Int64("user_id", cb.From.ID), "error", err)
		b.alert(cb, textTryLater)
		return
	}

	gift, _ := b.engine.Catalog().Get(key)

	adminMsg := tgbotapi.NewMessage(b.config.Bot.AdminsChatID,
		newWithdrawAdminText(cb.From.UserName, cb.From.ID, id, gift.Price, gift.Name))
	adminMsg.ParseMode = tgbotapi.ModeMarkdown
	adminMsg.ReplyMarkup = adminWithdrawKeyboard(id)
	b.send(adminMsg)

	b.alert(cb, "Заявка на вывод создана ✅")

	edit := tgbotapi.NewEditMessageTextAndMarkup(
		cb.Message.Chat.ID, cb.Message.MessageID,
		"✅ Заявка создана! Статус смотри в разделе *Мои выводы*.",
		backToMenu())
	edit.ParseMode = tgbotapi.ModeMarkdown
	b.send(edit)
}

func (b *Bot) handleAdminDecision(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat.ID != b.config.Bot.AdminsChatID {
		b.alert(cb, "Недоступно.")
		return
	}

	parts := strings.Split(strings.TrimPrefix(cb.Data, cbAdminPrefix), ":")
	if len(parts) != 2 || (parts[0] != "approve" && parts[0] != "decline") {
		b.answer(cb, "")
		return
	}
	withdrawID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		b.answer(cb, "")
		return
	}

	w, changed, err := b.engine.DecideWithdraw(ctx, withdrawID, parts[0] == "approve")
	if err != nil {
		b.logger.Error("Failed to decide withdraw", slog.Int64("withdraw_id", withdrawID), "error", err)
		b.alert(cb, textTryLater)
		return
	}
	if w == nil {
		b.alert(cb, "Заявка не найдена.")
		return
	}
	if !changed {
		b.alert(cb, "Уже обработано.")
		return
	}

	label := statusLabel(w.Status)

	b.send(tgbotapi.NewMessage(w.UserID, withdrawStatusText(w.ID, w.GiftName, label)))
	b.send(tgbotapi.NewEditMessageText(
		cb.Message.Chat.ID, cb.Message.MessageID,
		cb.Message.Text+"\n\nСтатус: "+label))
	b.answer(cb, "Готово")
}

func (b *Bot) sendProfile(ctx context.Context, chatID, userID int64, username string) {
	user, err := b.engine.User(ctx, userID)
	if err != nil {
		b.logger.Error("Failed to load user", slog.Int64("user_id", userID), "error", err)
		b.send(tgbotapi.NewMessage(chatID, textTryLater))
		return
	}
	if user == nil {
		b.send(tgbotapi.NewMessage(chatID, "Напиши /start"))
		return
	}

	reply := tgbotapi.NewMessage(chatID, profileText(username, userID, user.Balance, user.ReferralsCount))
	reply.ReplyMarkup = mainMenu()
	b.send(reply)
}

func (b *Bot) editProfile(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	user, err := b.engine.User(ctx, cb.From.ID)
	if err != nil {
		b.logger.Error("Failed to load user", slog.Int64("user_id", cb.From.ID), "error", err)
		b.alert(cb, textTryLater)
		return
	}
	if user == nil {
		b.alert(cb, "Напиши /start")
		return
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(
		cb.Message.Chat.ID, cb.Message.MessageID,
		profileText(cb.From.UserName, cb.From.ID, user.Balance, user.ReferralsCount),
		mainMenu())
	b.send(edit)
	b.answer(cb, "")
}

func (b *Bot) isAdmin(userID int64) bool {
	for _, id := range b.config.Bot.Admins {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Error("Failed to send message", "error", err)
	}
}

func (b *Bot) answer(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		b.logger.Error("Failed to answer callback", "error", err)
	}
}

func (b *Bot) alert(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(cb.ID, text)); err != nil {
		b.logger.Error("Failed to answer callback", "error", err)
	}
}
