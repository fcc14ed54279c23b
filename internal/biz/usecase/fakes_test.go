package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/botlistbot/botlistd/internal/biz/domain"
	"github.com/botlistbot/botlistd/internal/biz/repo"
)

type fakeBotRepo struct {
	mu      sync.Mutex
	saved   []*domain.Bot
	saveErr error
}

func (f *fakeBotRepo) ListEligibleForCheck(ctx context.Context) ([]*domain.Bot, error) {
	return nil, nil
}

func (f *fakeBotRepo) Create(ctx context.Context, bot *domain.Bot) error { return nil }

func (f *fakeBotRepo) Save(ctx context.Context, bot *domain.Bot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, bot)
	return nil
}

func (f *fakeBotRepo) Close() error { return nil }

func (f *fakeBotRepo) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type fakeKeywordRepo struct {
	mu    sync.Mutex
	names []string
	added map[int64][]string
}

func (f *fakeKeywordRepo) DistinctNamesExcluding(ctx context.Context, botID int64) ([]string, error) {
	return f.names, nil
}

func (f *fakeKeywordRepo) AddBatch(ctx context.Context, botID int64, names []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.added == nil {
		f.added = make(map[int64][]string)
	}
	f.added[botID] = append(f.added[botID], names...)
	return nil
}

func (f *fakeKeywordRepo) Close() error { return nil }

type sentMessage struct {
	chatID int64
	text   string
	button *repo.Button
	photo  string
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []sentMessage
	sendErr  error
}

func (f *fakeNotifier) record(msg sentMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	return f.record(sentMessage{chatID: chatID, text: text})
}

func (f *fakeNotifier) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	return f.record(sentMessage{chatID: chatID, text: text})
}

func (f *fakeNotifier) SendWithButton(ctx context.Context, chatID int64, text string, button repo.Button) error {
	return f.record(sentMessage{chatID: chatID, text: text, button: &button})
}

func (f *fakeNotifier) SendPhoto(ctx context.Context, chatID int64, path string, caption string) error {
	return f.record(sentMessage{chatID: chatID, text: caption, photo: path})
}

func (f *fakeNotifier) countContaining(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.messages {
		if strings.Contains(m.text, substr) {
			n++
		}
	}
	return n
}

type fakeProbeClient struct {
	mu          sync.Mutex
	resolveFn   func(bot *domain.Bot) (*domain.Peer, error)
	probeFn     func(peer *domain.Peer) (domain.Reply, error)
	probeDelay  time.Duration
	inFlight    int
	maxInFlight int
}

func (f *fakeProbeClient) Resolve(ctx context.Context, bot *domain.Bot) (*domain.Peer, error) {
	if f.resolveFn != nil {
		return f.resolveFn(bot)
	}
	return &domain.Peer{UserID: bot.ChatID, Username: strings.TrimPrefix(bot.Username, "@"), Bot: true}, nil
}

func (f *fakeProbeClient) Probe(ctx context.Context, peer *domain.Peer, timeout time.Duration, tryInline bool) (domain.Reply, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	if f.probeDelay > 0 {
		time.Sleep(f.probeDelay)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if f.probeFn != nil {
		return f.probeFn(peer)
	}
	return domain.Reply{Text: "Hello!"}, nil
}

func (f *fakeProbeClient) FetchProfilePhoto(ctx context.Context, peer *domain.Peer, path string) (bool, error) {
	return false, nil
}

func (f *fakeProbeClient) ScheduleConversationCleanup(peer *domain.Peer, delay time.Duration) {}

func (f *fakeProbeClient) observedMax() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}
