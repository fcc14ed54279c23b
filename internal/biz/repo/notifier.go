package repo

import "context"

// Button is an inline action attached to a notification.
// Exactly one of URL and CallbackData should be set.
type Button struct {
	Text         string
	URL          string
	CallbackData string
}

// Notifier delivers operator notifications through the BotList bot
// account. Deliveries are best-effort: callers log failures and move on.
type Notifier interface {
	// SendMessage sends a plain text message
	SendMessage(ctx context.Context, chatID int64, text string) error

	// SendMarkdown sends a markdown-formatted message
	SendMarkdown(ctx context.Context, chatID int64, text string) error

	// SendWithButton sends a message with a single inline button
	SendWithButton(ctx context.Context, chatID int64, text string, button Button) error

	// SendPhoto uploads a local image file with a caption
	SendPhoto(ctx context.Context, chatID int64, path string, caption string) error
}
