package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/botlistbot/botlistd/internal/biz/domain"
	"github.com/botlistbot/botlistd/internal/biz/repo"
	"github.com/botlistbot/botlistd/internal/biz/usecase"
)

type stubBotRepo struct {
	eligible []*domain.Bot
}

func (s *stubBotRepo) ListEligibleForCheck(ctx context.Context) ([]*domain.Bot, error) {
	return s.eligible, nil
}
func (s *stubBotRepo) Create(ctx context.Context, bot *domain.Bot) error { return nil }
func (s *stubBotRepo) Save(ctx context.Context, bot *domain.Bot) error   { return nil }
func (s *stubBotRepo) Close() error                                      { return nil }

type stubKeywordRepo struct{}

func (stubKeywordRepo) DistinctNamesExcluding(ctx context.Context, botID int64) ([]string, error) {
	return nil, nil
}
func (stubKeywordRepo) AddBatch(ctx context.Context, botID int64, names []string) error { return nil }
func (stubKeywordRepo) Close() error                                                    { return nil }

type stubNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (s *stubNotifier) add(text string) {
	s.mu.Lock()
	s.messages = append(s.messages, text)
	s.mu.Unlock()
}

func (s *stubNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	s.add(text)
	return nil
}
func (s *stubNotifier) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	s.add(text)
	return nil
}
func (s *stubNotifier) SendWithButton(ctx context.Context, chatID int64, text string, button repo.Button) error {
	s.add(text)
	return nil
}
func (s *stubNotifier) SendPhoto(ctx context.Context, chatID int64, path string, caption string) error {
	return nil
}

type stubProbeClient struct{}

func (stubProbeClient) Resolve(ctx context.Context, bot *domain.Bot) (*domain.Peer, error) {
	return &domain.Peer{UserID: bot.ChatID, Username: strings.TrimPrefix(bot.Username, "@"), Bot: true}, nil
}
func (stubProbeClient) Probe(ctx context.Context, peer *domain.Peer, timeout time.Duration, tryInline bool) (domain.Reply, error) {
	return domain.Reply{Text: "Hi there!"}, nil
}
func (stubProbeClient) FetchProfilePhoto(ctx context.Context, peer *domain.Peer, path string) (bool, error) {
	return false, nil
}
func (stubProbeClient) ScheduleConversationCleanup(peer *domain.Peer, delay time.Duration) {}

func newTestService(t *testing.T, bots *stubBotRepo, notifier *stubNotifier) *CheckerService {
	t.Helper()

	classifier, err := usecase.NewClassifier(nil)
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}
	extractor, err := usecase.NewKeywordExtractor(stubKeywordRepo{}, notifier, 1, nil, nil)
	if err != nil {
		t.Fatalf("NewKeywordExtractor failed: %v", err)
	}
	reconciler := usecase.NewReconciler(bots, notifier, 1, time.Hour, 24*time.Hour)
	checker := usecase.NewChecker(bots, stubProbeClient{}, notifier, classifier, reconciler, extractor, usecase.CheckerConfig{
		Concurrency:  2,
		ProbeTimeout: time.Second,
		NotifyChatID: 1,
	})
	return NewCheckerService(bots, checker, notifier, 1)
}

func TestCheckerService_RunSweepReports(t *testing.T) {
	bots := &stubBotRepo{eligible: []*domain.Bot{
		{ID: 1, ChatID: 100, Username: "@alphabot", Approved: true},
		{ID: 2, ChatID: 101, Username: "@betabot", Approved: true},
	}}
	notifier := &stubNotifier{}
	svc := newTestService(t, bots, notifier)

	counts, err := svc.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("RunSweep failed: %v", err)
	}
	if counts["online"] != 2 {
		t.Errorf("Expected 2 online outcomes, got %v", counts)
	}

	var report string
	for _, msg := range notifier.messages {
		if strings.HasPrefix(msg, "BotChecker completed") {
			report = msg
		}
	}
	if report == "" {
		t.Fatal("Expected a sweep report notification")
	}
	if !strings.Contains(report, "- 2 online") {
		t.Errorf("Expected the report to list outcome counts, got %q", report)
	}
}

func TestCheckerService_EmptySweep(t *testing.T) {
	bots := &stubBotRepo{}
	notifier := &stubNotifier{}
	svc := newTestService(t, bots, notifier)

	counts, err := svc.RunSweep(context.Background())
	if err != nil {
		t.Fatalf("RunSweep failed: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("Expected no outcomes, got %v", counts)
	}

	found := false
	for _, msg := range notifier.messages {
		if strings.Contains(msg, "without results") {
			found = true
		}
	}
	if !found {
		t.Error("Expected the no-results report")
	}
}

func TestCheckerService_CheckSingle(t *testing.T) {
	bots := &stubBotRepo{}
	notifier := &stubNotifier{}
	svc := newTestService(t, bots, notifier)

	online, reason := svc.CheckSingle(context.Background(), &domain.Bot{ID: 5, ChatID: 500, Username: "@newbot"})
	if !online || reason != "online" {
		t.Errorf("Expected (true, online), got (%v, %q)", online, reason)
	}
}
