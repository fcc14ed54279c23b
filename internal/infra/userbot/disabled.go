package userbot

import (
	"context"
	"errors"
	"time"

	"github.com/botlistbot/botlistd/internal/biz/domain"
)

// ErrUnavailable is returned by the disabled client for operations that
// cannot be served without MTProto credentials.
var ErrUnavailable = errors.New("userbot client not configured")

// Disabled is the fallback probe client used when no MTProto
// credentials are configured. Every check resolves to skipped, so the
// rest of the system keeps running in limited mode.
type Disabled struct{}

// Resolve reports every bot as skipped
func (Disabled) Resolve(ctx context.Context, bot *domain.Bot) (*domain.Peer, error) {
	return nil, nil
}

// Probe cannot be reached through Resolve; it fails loudly if called
// directly.
func (Disabled) Probe(ctx context.Context, peer *domain.Peer, timeout time.Duration, tryInline bool) (domain.Reply, error) {
	return domain.Reply{}, ErrUnavailable
}

// FetchProfilePhoto does nothing
func (Disabled) FetchProfilePhoto(ctx context.Context, peer *domain.Peer, path string) (bool, error) {
	return false, nil
}

// ScheduleConversationCleanup does nothing
func (Disabled) ScheduleConversationCleanup(peer *domain.Peer, delay time.Duration) {}
