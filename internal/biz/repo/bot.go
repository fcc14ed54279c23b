package repo

import (
	"context"

	"github.com/botlistbot/botlistd/internal/biz/domain"
)

// BotRepo is the bot repository interface
// Responsible for bot persistence (SQLite)
type BotRepo interface {
	// ListEligibleForCheck returns all approved bots that are either
	// disabled for the offline reason or not disabled at all, ordered
	// oldest-last-ping-first so stale entries are checked before
	// recently-probed ones.
	ListEligibleForCheck(ctx context.Context) ([]*domain.Bot, error)

	// Create inserts a new bot entry
	Create(ctx context.Context, bot *domain.Bot) error

	// Save writes back a bot's mutable fields
	Save(ctx context.Context, bot *domain.Bot) error

	// Close closes the underlying store
	Close() error
}
