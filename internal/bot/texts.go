package bot

import (
	"fmt"
	"strings"

	"github.com/vlasovdm/referral-gift-bot/internal/domain/models"
)

func profileText(username string, userID, balance, referrals int64) string {
	u := "—"
	if username != "" {
		u = "@" + username
	}
	return "👤 Профиль\n\n" +
		fmt.Sprintf("• Username: %s\n", u) +
		fmt.Sprintf("• ID: %d\n", userID) +
		fmt.Sprintf("• Баланс: %d 🪙\n", balance) +
		fmt.Sprintf("• Рефералы: %d\n", referrals)
}

func needSubscribeText(channels []string) string {
	var lines []string
	for _, ch := range channels {
		lines = append(lines, "• "+ch)
	}
	return "Чтобы пользоваться ботом, подпишись на каналы:\n\n" +
		strings.Join(lines, "\n") +
		"\n\nПосле подписки нажми кнопку ниже."
}

func refLinkText(link string) string {
	return "🔗 Твоя реферальная ссылка\n\n" +
		link +
		"\n\nПригласи друга: когда он запустит бота и подпишется на каналы — ты получишь 1 🪙."
}

func withdrawStatusText(withdrawID int64, giftName, status string) string {
	return fmt.Sprintf("🎁 Заявка #%d\n\nПодарок: %s\nСтатус: %s", withdrawID, giftName, status)
}

func withdrawsListText(withdraws []models.WithdrawRequest) string {
	lines := []string{"📦 *Мои выводы*\n"}
	for _, w := range withdraws {
		lines = append(lines, fmt.Sprintf("• `#%d` %s — %s", w.ID, w.GiftName, statusLabel(w.Status)))
	}
	return strings.Join(lines, "\n")
}

func newWithdrawAdminText(username string, userID, withdrawID, cost int64, giftName string) string {
	u := "—"
	if username != "" {
		u = "@" + username
	}
	return "📤 *Новый вывод*\n\n" +
		fmt.Sprintf("👤 %s\n", u) +
		fmt.Sprintf("🆔 `%d`\n", userID) +
		fmt.Sprintf("🎁 Подарок: *%s*\n", giftName) +
		fmt.Sprintf("💸 Списано: *%d* 🪙\n", cost) +
		fmt.Sprintf("🧾 Заявка: *#%d*", withdrawID)
}

func statsText(s *models.Stats) string {
	return "📊 Статистика бота\n\n" +
		fmt.Sprintf("👥 Пользователей: %d\n", s.Users) +
		fmt.Sprintf("🟢 Подписанных: %d\n\n", s.Verified) +
		fmt.Sprintf("🪙 Всего койнов выдано: %d\n", s.CoinsPaidOut) +
		fmt.Sprintf("📤 Всего заявок: %d\n\n", s.Withdraws) +
		fmt.Sprintf("⏳ В ожидании: %d\n", s.Pending) +
		fmt.Sprintf("✅ Выведено: %d\n", s.Approved) +
		fmt.Sprintf("❌ Отказано: %d", s.Declined)
}

func statusLabel(status models.WithdrawStatus) string {
	switch status {
	case models.WithdrawPending:
		return "⏳ В ожидании"
	case models.WithdrawApproved:
		return "✅ Выведено"
	case models.WithdrawDeclined:
		return "❌ Отказано"
	}
	return string(status)
}
