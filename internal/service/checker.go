package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/botlistbot/botlistd/internal/biz/domain"
	"github.com/botlistbot/botlistd/internal/biz/repo"
	"github.com/botlistbot/botlistd/internal/biz/usecase"
)

// CheckerService runs liveness sweeps over the listed bots and reports
// the results to operators.
type CheckerService struct {
	bots         repo.BotRepo
	checker      *usecase.Checker
	notifier     repo.Notifier
	notifyChatID int64
}

// NewCheckerService creates a new checker service
func NewCheckerService(
	bots repo.BotRepo,
	checker *usecase.Checker,
	notifier repo.Notifier,
	notifyChatID int64,
) *CheckerService {
	return &CheckerService{
		bots:         bots,
		checker:      checker,
		notifier:     notifier,
		notifyChatID: notifyChatID,
	}
}

// RunSweep checks every eligible bot and sends the aggregate report.
func (s *CheckerService) RunSweep(ctx context.Context) (usecase.SweepCounts, error) {
	bots, err := s.bots.ListEligibleForCheck(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible bots: %w", err)
	}

	fmt.Printf("[Checker] Starting sweep over %d bots\n", len(bots))
	start := time.Now()
	counts := s.checker.RunSweep(ctx, bots)
	elapsed := time.Since(start)

	msg := s.buildReport(counts, elapsed)
	fmt.Printf("[Checker] %s\n", msg)
	if err := s.notifier.SendMessage(ctx, s.notifyChatID, msg); err != nil {
		fmt.Printf("[Checker] Failed to send sweep report: %v\n", err)
	}

	return counts, nil
}

// CheckSingle runs one ad-hoc check for the submission workflow.
// Returns whether the bot is online plus the outcome label as reason.
func (s *CheckerService) CheckSingle(ctx context.Context, bot *domain.Bot) (bool, string) {
	return s.checker.CheckSingle(ctx, bot)
}

func (s *CheckerService) buildReport(counts usecase.SweepCounts, elapsed time.Duration) string {
	if len(counts) == 0 {
		return "BotChecker finished without results."
	}
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	msg := fmt.Sprintf("BotChecker completed in %ds:\n", int(elapsed.Seconds()))
	for _, label := range labels {
		msg += fmt.Sprintf("\n- %d %s", counts[label], label)
	}
	return msg
}
