package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/botlistbot/botlistd/internal/biz/domain"
	"github.com/botlistbot/botlistd/internal/biz/repo"
)

// botRepo implements the Bot repository
type botRepo struct {
	db *sql.DB
}

// NewBotRepo creates a new Bot repository on an open database
func NewBotRepo(db *sql.DB) (repo.BotRepo, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id INTEGER NOT NULL DEFAULT 0,
			access_hash INTEGER NOT NULL DEFAULT 0,
			username TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			approved INTEGER NOT NULL DEFAULT 0,
			last_ping INTEGER NOT NULL DEFAULT 0,
			last_response INTEGER NOT NULL DEFAULT 0,
			disabled_reason TEXT NOT NULL DEFAULT '',
			inlinequeries INTEGER NOT NULL DEFAULT 0,
			official INTEGER NOT NULL DEFAULT 0,
			botbuilder INTEGER NOT NULL DEFAULT 0,
			userbot INTEGER NOT NULL DEFAULT 0,
			bot_info_version INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create bots table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bots_last_ping ON bots(last_ping)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &botRepo{db: db}, nil
}

const botColumns = `id, chat_id, access_hash, username, name, approved,
	last_ping, last_response, disabled_reason,
	inlinequeries, official, botbuilder, userbot, bot_info_version`

// ListEligibleForCheck returns all approved bots that are offline-disabled
// or not disabled, oldest last_ping first
func (r *botRepo) ListEligibleForCheck(ctx context.Context) ([]*domain.Bot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+botColumns+`
		FROM bots
		WHERE approved = 1 AND (disabled_reason = ? OR disabled_reason = ?)
		ORDER BY last_ping ASC
	`, string(domain.DisabledOffline), string(domain.DisabledNone))
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible bots: %w", err)
	}
	defer rows.Close()

	var bots []*domain.Bot
	for rows.Next() {
		bot, err := scanBot(rows)
		if err != nil {
			return nil, err
		}
		bots = append(bots, bot)
	}
	return bots, rows.Err()
}

// Create inserts a new bot entry
func (r *botRepo) Create(ctx context.Context, bot *domain.Bot) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO bots (chat_id, access_hash, username, name, approved,
			last_ping, last_response, disabled_reason,
			inlinequeries, official, botbuilder, userbot, bot_info_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		bot.ChatID,
		bot.AccessHash,
		bot.Username,
		bot.Name,
		bot.Approved,
		unixOrZero(bot.LastPing),
		unixOrZero(bot.LastResponse),
		string(bot.DisabledReason),
		bot.InlineQueries,
		bot.Official,
		bot.BotBuilder,
		bot.UserBot,
		bot.BotInfoVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	bot.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get bot id: %w", err)
	}
	return nil
}

// Save writes back a bot's mutable fields
func (r *botRepo) Save(ctx context.Context, bot *domain.Bot) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE bots SET chat_id = ?, access_hash = ?, username = ?, name = ?, approved = ?,
			last_ping = ?, last_response = ?, disabled_reason = ?,
			inlinequeries = ?, official = ?, botbuilder = ?, userbot = ?, bot_info_version = ?
		WHERE id = ?
	`,
		bot.ChatID,
		bot.AccessHash,
		bot.Username,
		bot.Name,
		bot.Approved,
		unixOrZero(bot.LastPing),
		unixOrZero(bot.LastResponse),
		string(bot.DisabledReason),
		bot.InlineQueries,
		bot.Official,
		bot.BotBuilder,
		bot.UserBot,
		bot.BotInfoVersion,
		bot.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save bot: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *botRepo) Close() error {
	return r.db.Close()
}

func scanBot(rows *sql.Rows) (*domain.Bot, error) {
	var bot domain.Bot
	var lastPing, lastResponse int64
	var reason string
	err := rows.Scan(
		&bot.ID,
		&bot.ChatID,
		&bot.AccessHash,
		&bot.Username,
		&bot.Name,
		&bot.Approved,
		&lastPing,
		&lastResponse,
		&reason,
		&bot.InlineQueries,
		&bot.Official,
		&bot.BotBuilder,
		&bot.UserBot,
		&bot.BotInfoVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan bot: %w", err)
	}
	bot.LastPing = timeOrZero(lastPing)
	bot.LastResponse = timeOrZero(lastResponse)
	bot.DisabledReason = domain.DisabledReason(reason)
	return &bot, nil
}

// unixOrZero maps the zero time to 0 so "never" survives a round trip.
func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func timeOrZero(unix int64) time.Time {
	if unix == 0 {
		return time.Time{}
	}
	return time.Unix(unix, 0)
}
