package repo

import (
	"context"
	"errors"
	"time"

	"github.com/botlistbot/botlistd/internal/biz/domain"
)

// ErrNotFound is returned by Resolve when the stored username no longer
// exists on Telegram. Callers react to it (operator alert with a repair
// action) rather than treating it as a transient failure.
var ErrNotFound = errors.New("username does not exist")

// ProbeClient drives the userbot account used to contact listed bots.
type ProbeClient interface {
	// Resolve resolves a bot to a peer handle. The stored chat id is
	// tried first; username resolution is attempted only while no
	// flood window is active. Returns (nil, nil) when resolution was
	// skipped because of an active or freshly recorded flood window.
	// Returns ErrNotFound when the username does not exist.
	Resolve(ctx context.Context, bot *domain.Bot) (*domain.Peer, error)

	// Probe sends the configured probe messages to the peer, awaiting
	// a reply for up to timeout per message, and falls back to the
	// configured inline queries when tryInline is set. Returns the
	// zero Reply if nothing was received.
	Probe(ctx context.Context, peer *domain.Peer, timeout time.Duration, tryInline bool) (domain.Reply, error)

	// FetchProfilePhoto downloads the peer's current profile photo and
	// replaces the file at path if the content differs from what is
	// stored there. Reports whether the stored file changed. A flood
	// wait during the download is tolerated by skipping the photo.
	FetchProfilePhoto(ctx context.Context, peer *domain.Peer, path string) (bool, error)

	// ScheduleConversationCleanup purges the conversation history with
	// the peer after a delay. Best-effort; failures are logged.
	ScheduleConversationCleanup(peer *domain.Peer, delay time.Duration)
}
