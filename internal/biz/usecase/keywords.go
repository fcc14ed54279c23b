package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/botlistbot/botlistd/internal/biz/domain"
	"github.com/botlistbot/botlistd/internal/biz/repo"
)

// KeywordExtractor scans probe replies for bot-builder signatures and
// for known keyword names not yet associated with the bot.
type KeywordExtractor struct {
	keywords     repo.KeywordRepo
	notifier     repo.Notifier
	notifyChatID int64
	builder      *regexp.Regexp
	forbidden    map[string]bool
}

// NewKeywordExtractor creates a new keyword extractor
func NewKeywordExtractor(
	keywords repo.KeywordRepo,
	notifier repo.Notifier,
	notifyChatID int64,
	builderPatterns []string,
	forbiddenKeywords []string,
) (*KeywordExtractor, error) {
	e := &KeywordExtractor{
		keywords:     keywords,
		notifier:     notifier,
		notifyChatID: notifyChatID,
		forbidden:    make(map[string]bool, len(forbiddenKeywords)),
	}
	if len(builderPatterns) > 0 {
		re, err := regexp.Compile("(?i)" + strings.Join(builderPatterns, "|"))
		if err != nil {
			return nil, fmt.Errorf("failed to compile botbuilder patterns: %w", err)
		}
		e.builder = re
	}
	for _, k := range forbiddenKeywords {
		e.forbidden[strings.ToLower(k)] = true
	}
	return e, nil
}

// Extract processes the text of a responded verdict: flags bot-builder
// products, associates newly matched keywords with the bot in one batch
// and sends a single consolidated notification for everything added.
func (e *KeywordExtractor) Extract(ctx context.Context, bot *domain.Bot, text string) error {
	lower := strings.ToLower(text)

	if e.builder != nil && e.builder.MatchString(lower) {
		bot.BotBuilder = true
	}

	names, err := e.keywords.DistinctNamesExcluding(ctx, bot.ID)
	if err != nil {
		return fmt.Errorf("failed to list keyword names: %w", err)
	}

	var toAdd []string
	for _, name := range names {
		if e.forbidden[strings.ToLower(name)] {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
		if err != nil {
			continue
		}
		if re.MatchString(lower) {
			toAdd = append(toAdd, name)
		}
	}

	if len(toAdd) == 0 {
		return nil
	}

	if err := e.keywords.AddBatch(ctx, bot.ID, toAdd); err != nil {
		return fmt.Errorf("failed to add keywords: %w", err)
	}

	plural := ""
	if len(toAdd) > 1 {
		plural = "s"
	}
	tags := make([]string, len(toAdd))
	for i, k := range toAdd {
		tags[i] = "#" + k
	}
	msg := fmt.Sprintf("New keyword%s: %s for %s.", plural, strings.Join(tags, ", "), bot.Username)
	fmt.Printf("[Keywords] %s\n", msg)
	if err := e.notifier.SendMessage(ctx, e.notifyChatID, msg); err != nil {
		fmt.Printf("[Keywords] Failed to send keyword notification for %s: %v\n", bot.Username, err)
	}
	return nil
}
