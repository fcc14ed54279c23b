package usecase

import (
	"context"
	"testing"

	"github.com/botlistbot/botlistd/internal/biz/domain"
)

func newTestExtractor(t *testing.T, keywords *fakeKeywordRepo, notifier *fakeNotifier) *KeywordExtractor {
	t.Helper()
	e, err := NewKeywordExtractor(
		keywords,
		notifier,
		testNotifyChat,
		[]string{"manybot", "chatfuel", "created with"},
		[]string{"bot", "telegram"},
	)
	if err != nil {
		t.Fatalf("NewKeywordExtractor failed: %v", err)
	}
	return e
}

func TestKeywordExtractor_AddsNewKeywords(t *testing.T) {
	keywords := &fakeKeywordRepo{names: []string{"weather", "news", "music"}}
	notifier := &fakeNotifier{}
	e := newTestExtractor(t, keywords, notifier)

	bot := &domain.Bot{ID: 7, Username: "@forecastbot"}
	err := e.Extract(context.Background(), bot, "I can send you Weather forecasts and breaking news!")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	added := keywords.added[7]
	if len(added) != 2 || added[0] != "weather" || added[1] != "news" {
		t.Errorf("Expected [weather news] to be added, got %v", added)
	}
	if got := notifier.countContaining("New keywords: #weather, #news"); got != 1 {
		t.Errorf("Expected one consolidated notification, got %d", got)
	}
}

func TestKeywordExtractor_ScenarioE_NoDuplicates(t *testing.T) {
	// "foo" is already associated with the bot, so the repo excludes it
	// from the candidate names.
	keywords := &fakeKeywordRepo{names: []string{"bar"}}
	notifier := &fakeNotifier{}
	e := newTestExtractor(t, keywords, notifier)

	bot := &domain.Bot{ID: 7, Username: "@foobot"}
	if err := e.Extract(context.Background(), bot, "foo foo foo"); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(keywords.added) != 0 {
		t.Errorf("Expected no associations to be added, got %v", keywords.added)
	}
	if len(notifier.messages) != 0 {
		t.Errorf("Expected no notification, got %d", len(notifier.messages))
	}
}

func TestKeywordExtractor_ForbiddenFiltered(t *testing.T) {
	keywords := &fakeKeywordRepo{names: []string{"telegram", "stickers"}}
	notifier := &fakeNotifier{}
	e := newTestExtractor(t, keywords, notifier)

	bot := &domain.Bot{ID: 7, Username: "@stickerbot"}
	if err := e.Extract(context.Background(), bot, "The best telegram stickers around"); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	added := keywords.added[7]
	if len(added) != 1 || added[0] != "stickers" {
		t.Errorf("Expected only [stickers] to be added, got %v", added)
	}
}

func TestKeywordExtractor_WordBoundary(t *testing.T) {
	keywords := &fakeKeywordRepo{names: []string{"art"}}
	notifier := &fakeNotifier{}
	e := newTestExtractor(t, keywords, notifier)

	bot := &domain.Bot{ID: 7, Username: "@startbot"}
	if err := e.Extract(context.Background(), bot, "press start to begin"); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(keywords.added) != 0 {
		t.Errorf("Expected no partial-word matches, got %v", keywords.added)
	}
}

func TestKeywordExtractor_BotBuilderFlag(t *testing.T) {
	keywords := &fakeKeywordRepo{}
	notifier := &fakeNotifier{}
	e := newTestExtractor(t, keywords, notifier)

	bot := &domain.Bot{ID: 7, Username: "@genericbot"}
	if err := e.Extract(context.Background(), bot, "This bot was created with Manybot!"); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if !bot.BotBuilder {
		t.Error("Expected the botbuilder flag to be set")
	}
}
