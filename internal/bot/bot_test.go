package bot

import (
	"strings"
	"testing"

	"github.com/vlasovdm/referral-gift-bot/internal/domain/models"
	"github.com/vlasovdm/referral-gift-bot/internal/engine"
)

func TestParseReferrer(t *testing.T) {
	tests := []struct {
		name   string
		args   string
		selfID int64
		want   int64
	}{
		{"empty", "", 20, 0},
		{"valid", "10", 20, 10},
		{"padded", "  10  ", 20, 10},
		{"self", "20", 20, 0},
		{"not a number", "abc", 20, 0},
		{"negative", "-5", 20, 0},
		{"zero", "0", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseReferrer(tt.args, tt.selfID); got != tt.want {
				t.Errorf("parseReferrer(%q, %d) = %d, want %d", tt.args, tt.selfID, got, tt.want)
			}
		})
	}
}

func TestStatusLabel(t *testing.T) {
	if got := statusLabel(models.WithdrawPending); got != "⏳ В ожидании" {
		t.Errorf("unexpected pending label: %q", got)
	}
	if got := statusLabel(models.WithdrawApproved); got != "✅ Выведено" {
		t.Errorf("unexpected approved label: %q", got)
	}
	if got := statusLabel(models.WithdrawDeclined); got != "❌ Отказано" {
		t.Errorf("unexpected declined label: %q", got)
	}
	if got := statusLabel(models.WithdrawStatus("paid")); got != "paid" {
		t.Errorf("unknown status must pass through, got %q", got)
	}
}

func TestProfileTextWithoutUsername(t *testing.T) {
	text := profileText("", 20, 5, 2)
	if !strings.Contains(text, "Username: —") {
		t.Errorf("expected dash for missing username, got %q", text)
	}
	if !strings.Contains(text, "Баланс: 5") || !strings.Contains(text, "Рефералы: 2") {
		t.Errorf("unexpected profile text: %q", text)
	}
}

func TestShopKeyboardListsCatalogInOrder(t *testing.T) {
	gifts := []engine.Gift{
		{Key: "bear", Name: "🧸 Мишка", Price: 4},
		{Key: "rose", Name: "🌹 Роза", Price: 6},
	}

	kb := shopKeyboard(gifts)

	// Gift rows plus the back row.
	if len(kb.InlineKeyboard) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(kb.InlineKeyboard))
	}
	first := kb.InlineKeyboard[0][0]
	if *first.CallbackData != "buy:bear" {
		t.Errorf("expected first button data buy:bear, got %q", *first.CallbackData)
	}
	if !strings.Contains(first.Text, "4 койнов") {
		t.Errorf("expected price in button text, got %q", first.Text)
	}
}
