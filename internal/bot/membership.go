package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ChannelMembership answers membership checks through the Telegram Bot API.
type ChannelMembership struct {
	api *tgbotapi.BotAPI
}

func NewChannelMembership(api *tgbotapi.BotAPI) *ChannelMembership {
	return &ChannelMembership{api: api}
}

func (m *ChannelMembership) CheckMembership(ctx context.Context, userID int64, channel string) (string, error) {
	member, err := m.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: channel,
			UserID:             userID,
		},
	})
	if err != nil {
		return "", err
	}

	return member.Status, nil
}
