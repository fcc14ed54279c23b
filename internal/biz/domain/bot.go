package domain

import (
	"strings"
	"time"
)

// DisabledReason explains why a bot was removed from the public list.
type DisabledReason string

const (
	DisabledNone    DisabledReason = ""
	DisabledOffline DisabledReason = "offline"
	DisabledBanned  DisabledReason = "banned"
)

// Bot represents a listed bot entry
type Bot struct {
	ID         int64
	ChatID     int64 // Telegram user id of the bot account (0 if never resolved)
	AccessHash int64 // MTProto access hash cached from the last resolve
	Username   string
	Name       string
	Approved   bool

	LastPing       time.Time // Last completed probe attempt (any verdict)
	LastResponse   time.Time // Last probe that produced a non-offline verdict
	DisabledReason DisabledReason

	InlineQueries  bool
	Official       bool
	BotBuilder     bool
	UserBot        bool
	BotInfoVersion int
}

// IsOffline reports the derived offline state: disabled for the offline
// reason, or unresponsive per the liveness fields.
func (b *Bot) IsOffline(now time.Time, grace time.Duration) bool {
	return b.DisabledReason == DisabledOffline || b.IsUnresponsive(now, grace)
}

// IsUnresponsive reports offline-ness from the liveness fields alone,
// ignoring the disabled state: no response observed since the grace
// window, or the most recent probe got no response. A bot that was never
// probed counts as online until the first probe says otherwise.
func (b *Bot) IsUnresponsive(now time.Time, grace time.Duration) bool {
	if b.LastResponse.IsZero() {
		return !b.LastPing.IsZero()
	}
	if b.LastPing.After(b.LastResponse) {
		return true
	}
	return grace > 0 && now.Sub(b.LastResponse) > grace
}

// OfflineFor returns the duration since the last successful response.
// A bot that has never responded is treated as offline forever.
func (b *Bot) OfflineFor(now time.Time) time.Duration {
	if b.LastResponse.IsZero() {
		return time.Duration(1<<63 - 1)
	}
	return now.Sub(b.LastResponse)
}

// Disable marks the bot as disabled for the given reason.
// Returns false if the reason was already set.
func (b *Bot) Disable(reason DisabledReason) bool {
	if b.DisabledReason == reason {
		return false
	}
	b.DisabledReason = reason
	return true
}

// Enable clears the disabled state.
// Returns false if the bot was not disabled.
func (b *Bot) Enable() bool {
	if b.DisabledReason == DisabledNone {
		return false
	}
	b.DisabledReason = DisabledNone
	return true
}

// ApplyPeer refreshes the cached profile fields from a resolved peer.
func (b *Bot) ApplyPeer(p *Peer) {
	b.ChatID = p.UserID
	b.AccessHash = p.AccessHash
	if p.Username != "" {
		b.Username = "@" + p.Username
	}
	if p.Bot {
		b.Official = p.Verified
		b.InlineQueries = p.InlineQueries
		b.BotInfoVersion = p.BotInfoVersion
		if p.FirstName != "" {
			b.Name = p.FirstName
		}
	} else {
		b.UserBot = true
		b.Name = strings.TrimSpace(p.FirstName + " " + p.LastName)
	}
}

// DisplayName returns the bot's name, falling back to its username.
func (b *Bot) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return b.Username
}
