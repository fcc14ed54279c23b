package data

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/botlistbot/botlistd/internal/biz/repo"
)

// telegramNotifier implements the Notifier on the Telegram Bot API,
// sending through the BotList bot account.
type telegramNotifier struct {
	api *tgbotapi.BotAPI
}

// NewTelegramNotifier creates a notifier for the given bot token
func NewTelegramNotifier(token string) (repo.Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}
	fmt.Printf("[Notifier] Authorized as @%s\n", api.Self.UserName)
	return &telegramNotifier{api: api}, nil
}

// SendMessage sends a plain text message
func (n *telegramNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendMarkdown sends a markdown-formatted message
func (n *telegramNotifier) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send markdown message: %w", err)
	}
	return nil
}

// SendWithButton sends a message with a single inline button
func (n *telegramNotifier) SendWithButton(ctx context.Context, chatID int64, text string, button repo.Button) error {
	var btn tgbotapi.InlineKeyboardButton
	if button.URL != "" {
		btn = tgbotapi.NewInlineKeyboardButtonURL(button.Text, button.URL)
	} else {
		btn = tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(btn))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message with button: %w", err)
	}
	return nil
}

// SendPhoto uploads a local image file with a caption
func (n *telegramNotifier) SendPhoto(ctx context.Context, chatID int64, path string, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	photo.Caption = caption
	if _, err := n.api.Send(photo); err != nil {
		return fmt.Errorf("failed to send photo: %w", err)
	}
	return nil
}
