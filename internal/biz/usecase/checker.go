package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/botlistbot/botlistd/internal/biz/domain"
	"github.com/botlistbot/botlistd/internal/biz/repo"
)

// errSkipped marks a check that could not run this sweep (e.g. an
// active flood window) and should be retried on the next one.
var errSkipped = errors.New("check skipped")

// CheckerConfig contains the knobs of a sweep.
type CheckerConfig struct {
	Concurrency                 int
	ProbeTimeout                time.Duration
	DownloadProfilePhotos       bool
	NotifyNewProfilePhoto       bool
	DeleteConversationAfterPing bool
	CleanupDelay                time.Duration
	PhotoDir                    string
	NotifyChatID                int64 // Notifications channel
	ModerationChatID            int64 // Moderators group, receives repair requests
}

// SweepCounts maps an outcome label to how many checks produced it.
type SweepCounts map[string]int

// Checker probes listed bots with bounded concurrency and reconciles
// the results against the store.
type Checker struct {
	bots       repo.BotRepo
	probe      repo.ProbeClient
	notifier   repo.Notifier
	classifier *Classifier
	reconciler *Reconciler
	extractor  *KeywordExtractor
	cfg        CheckerConfig
}

// NewChecker creates a new checker
func NewChecker(
	bots repo.BotRepo,
	probe repo.ProbeClient,
	notifier repo.Notifier,
	classifier *Classifier,
	reconciler *Reconciler,
	extractor *KeywordExtractor,
	cfg CheckerConfig,
) *Checker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Checker{
		bots:       bots,
		probe:      probe,
		notifier:   notifier,
		classifier: classifier,
		reconciler: reconciler,
		extractor:  extractor,
		cfg:        cfg,
	}
}

// RunSweep checks every given bot, at most cfg.Concurrency network
// probes in flight at once. Cancelling ctx stops launching new checks;
// checks already admitted always run to completion on a detached
// context, so a cancelled sweep still drains cleanly. Outcomes are
// funneled through a single reader, never shared counters: the results
// channel is closed once all checks returned, then drained.
func (c *Checker) RunSweep(ctx context.Context, bots []*domain.Bot) SweepCounts {
	results := make(chan string)
	done := make(chan SweepCounts)
	go func() {
		counts := SweepCounts{}
		for label := range results {
			counts[label]++
		}
		done <- counts
	}()

	sem := semaphore.NewWeighted(int64(c.cfg.Concurrency))
	probeCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	launched := 0
	for _, bot := range bots {
		if ctx.Err() != nil {
			fmt.Printf("[Checker] Sweep cancelled after launching %d of %d checks\n", launched, len(bots))
			break
		}
		launched++
		wg.Add(1)
		go func(b *domain.Bot) {
			defer wg.Done()
			results <- c.checkOne(probeCtx, sem, b)
		}(bot)
	}

	wg.Wait()
	close(results)
	return <-done
}

// CheckSingle runs one ad-hoc check, used by the submission workflow.
// Returns whether the bot is considered online plus the outcome label.
func (c *Checker) CheckSingle(ctx context.Context, bot *domain.Bot) (bool, string) {
	label := c.checkOne(ctx, semaphore.NewWeighted(1), bot)
	return label == "online", label
}

// checkOne runs the full check of one bot and returns its outcome
// label. Nothing escapes this boundary: errors and panics become
// labels, so a single bot can never abort a sweep.
func (c *Checker) checkOne(ctx context.Context, sem *semaphore.Weighted, bot *domain.Bot) (label string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("[Checker] Panic while checking %s: %v\n", bot.Username, r)
			label = fmt.Sprintf("panic: %v", r)
		}
	}()

	fmt.Printf("[Checker] Checking bot %s...\n", bot.Username)

	peer, reply, err := c.probeBot(ctx, sem, bot)
	if errors.Is(err, repo.ErrNotFound) {
		c.reportNotFound(ctx, bot)
		return "not found"
	}
	if errors.Is(err, errSkipped) {
		return "skipped"
	}
	if err != nil {
		fmt.Printf("[Checker] Probe of %s failed: %v\n", bot.Username, err)
		return err.Error()
	}

	verdict := c.classifier.Classify(reply)
	c.reconciler.Apply(ctx, bot, verdict)

	if verdict == domain.VerdictResponded && reply.Text != "" {
		if err := c.extractor.Extract(ctx, bot, reply.Text); err != nil {
			fmt.Printf("[Checker] Keyword extraction for %s failed: %v\n", bot.Username, err)
		}
	}

	if c.cfg.DownloadProfilePhotos {
		c.updateProfilePhoto(ctx, bot, peer)
	}

	if err := c.bots.Save(ctx, bot); err != nil {
		fmt.Printf("[Checker] Failed to save %s: %v\n", bot.Username, err)
		return err.Error()
	}

	if c.cfg.DeleteConversationAfterPing {
		c.probe.ScheduleConversationCleanup(peer, c.cfg.CleanupDelay)
	}

	if err := c.reconciler.DecideEnablement(ctx, bot); err != nil {
		fmt.Printf("[Checker] Enablement decision for %s failed: %v\n", bot.Username, err)
		return err.Error()
	}

	if c.reconciler.IsOffline(bot) {
		return "offline"
	}
	return "online"
}

// probeBot is the network-bound phase of a check: resolve plus probe,
// both under the admission gate. Classification and persistence happen
// outside the gate.
func (c *Checker) probeBot(ctx context.Context, sem *semaphore.Weighted, bot *domain.Bot) (*domain.Peer, domain.Reply, error) {
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, domain.Reply{}, errSkipped
	}
	defer sem.Release(1)

	peer, err := c.probe.Resolve(ctx, bot)
	if err != nil {
		return nil, domain.Reply{}, err
	}
	if peer == nil {
		return nil, domain.Reply{}, errSkipped
	}

	bot.ApplyPeer(peer)

	reply, err := c.probe.Probe(ctx, peer, c.cfg.ProbeTimeout, bot.InlineQueries)
	if err != nil {
		return nil, domain.Reply{}, err
	}
	return peer, reply, nil
}

// reportNotFound alerts the moderators that a listed username no longer
// exists, with a button to fix the entry. Falls back to the plain
// notifications channel if the moderators group rejects the message.
func (c *Checker) reportNotFound(ctx context.Context, bot *domain.Bot) {
	text := fmt.Sprintf("%s does not exist (anymore). Please resolve this issue manually!", bot.Username)
	button := repo.Button{
		Text:         "✏️ Edit",
		CallbackData: fmt.Sprintf("edit-bot:%d", bot.ID),
	}
	if err := c.notifier.SendWithButton(ctx, c.cfg.ModerationChatID, text, button); err != nil {
		if err := c.notifier.SendMessage(ctx, c.cfg.NotifyChatID, text); err != nil {
			fmt.Printf("[Checker] Failed to report missing bot %s: %v\n", bot.Username, err)
		}
	}
}

// updateProfilePhoto refreshes the stored profile picture and, when it
// changed and the option is on, shows operators the new one.
func (c *Checker) updateProfilePhoto(ctx context.Context, bot *domain.Bot, peer *domain.Peer) {
	path := filepath.Join(c.cfg.PhotoDir, strings.TrimPrefix(bot.Username, "@")+".jpg")
	changed, err := c.probe.FetchProfilePhoto(ctx, peer, path)
	if err != nil {
		fmt.Printf("[Checker] Failed to fetch profile photo of %s: %v\n", bot.Username, err)
		return
	}
	if changed && c.cfg.NotifyNewProfilePhoto {
		caption := fmt.Sprintf("New profile picture of %s:", bot.Username)
		if err := c.notifier.SendPhoto(ctx, c.cfg.NotifyChatID, path, caption); err != nil {
			fmt.Printf("[Checker] Failed to send new profile picture of %s: %v\n", bot.Username, err)
		}
	}
}
