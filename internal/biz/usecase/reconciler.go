package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/botlistbot/botlistd/internal/biz/domain"
	"github.com/botlistbot/botlistd/internal/biz/repo"
)

// Reconciler updates persisted liveness state from a probe verdict and
// decides when a bot gets disabled or re-enabled.
type Reconciler struct {
	bots         repo.BotRepo
	notifier     repo.Notifier
	notifyChatID int64
	offlineGrace time.Duration // How long without a response before the derived state flips to offline
	disableAfter time.Duration // How long offline before the bot is removed from the list
	now          func() time.Time
}

// NewReconciler creates a new reconciler
func NewReconciler(
	bots repo.BotRepo,
	notifier repo.Notifier,
	notifyChatID int64,
	offlineGrace time.Duration,
	disableAfter time.Duration,
) *Reconciler {
	return &Reconciler{
		bots:         bots,
		notifier:     notifier,
		notifyChatID: notifyChatID,
		offlineGrace: offlineGrace,
		disableAfter: disableAfter,
		now:          time.Now,
	}
}

// IsOffline reports the bot's derived offline state.
func (r *Reconciler) IsOffline(bot *domain.Bot) bool {
	return bot.IsOffline(r.now(), r.offlineGrace)
}

// Apply writes a verdict into the bot's liveness fields and notifies
// operators when the online/offline state flipped. LastPing is always
// updated; LastResponse only on a non-offline verdict.
func (r *Reconciler) Apply(ctx context.Context, bot *domain.Bot, verdict domain.Verdict) {
	now := r.now()
	wasOffline := bot.IsOffline(now, r.offlineGrace)
	isOffline := verdict != domain.VerdictResponded

	bot.LastPing = now
	if !isOffline {
		bot.LastResponse = now
	}

	if wasOffline != isOffline {
		state := "online"
		if isOffline {
			state = "offline"
		}
		text := fmt.Sprintf("%s went %s.", bot.Username, state)
		if err := r.notifier.SendMessage(ctx, r.notifyChatID, text); err != nil {
			fmt.Printf("[Reconciler] Failed to send state-flip notification for %s: %v\n", bot.Username, err)
		}
	}
}

// DecideEnablement runs the disable/re-enable decision after a probe.
// A banned bot must never be touched by this decision; reaching one here
// is a programming error and is surfaced instead of acted on. At most
// one of the two branches can fire per sweep, since their conditions are
// mutually exclusive.
func (r *Reconciler) DecideEnablement(ctx context.Context, bot *domain.Bot) error {
	if bot.DisabledReason == domain.DisabledBanned {
		return fmt.Errorf("banned bot %s reached the enablement decision", bot.Username)
	}

	// The decision looks at raw responsiveness rather than the derived
	// offline state: a bot already disabled for the offline reason must
	// still be able to come back online here.
	now := r.now()
	offline := bot.IsUnresponsive(now, r.offlineGrace)

	if offline &&
		bot.OfflineFor(now) > r.disableAfter &&
		bot.DisabledReason != domain.DisabledOffline {
		if !bot.Disable(domain.DisabledOffline) {
			return nil
		}
		if err := r.bots.Save(ctx, bot); err != nil {
			return fmt.Errorf("failed to persist disabled state for %s: %w", bot.Username, err)
		}

		reason := "it's been offline for.. like... ever"
		if !bot.LastResponse.IsZero() {
			reason = "its last response was " + humanize.Time(bot.LastResponse)
		}
		text := fmt.Sprintf("%s disabled as %s.", bot.Username, reason)
		fmt.Printf("[Reconciler] %s\n", text)
		if err := r.notifier.SendMarkdown(ctx, r.notifyChatID, text); err != nil {
			fmt.Printf("[Reconciler] Failed to send disable notification for %s: %v\n", bot.Username, err)
		}
		return nil
	}

	if !offline && bot.DisabledReason == domain.DisabledOffline {
		if !bot.Enable() {
			return nil
		}
		if err := r.bots.Save(ctx, bot); err != nil {
			return fmt.Errorf("failed to persist enabled state for %s: %w", bot.Username, err)
		}

		text := fmt.Sprintf("%s was included in the @BotList again as it came back online.", bot.Username)
		fmt.Printf("[Reconciler] %s\n", text)
		if err := r.notifier.SendMarkdown(ctx, r.notifyChatID, text); err != nil {
			fmt.Printf("[Reconciler] Failed to send re-enable notification for %s: %v\n", bot.Username, err)
		}
	}

	return nil
}
