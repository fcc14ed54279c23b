package conf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CheckerLists contains the list-valued checker settings loaded from
// YAML: what to send, and how to read the answers.
type CheckerLists struct {
	// Messages sent to a bot, in order, until one draws a reply
	PingMessages []string `yaml:"ping_messages"`

	// Inline queries tried when a bot supports them but stays silent
	InlineQueries []string `yaml:"inline_queries"`

	// Patterns that mark a textual reply as "actually offline"
	OfflinePatterns []string `yaml:"offline_patterns"`

	// Patterns identifying bots produced by bot-builder services
	BotBuilderPatterns []string `yaml:"botbuilder_patterns"`

	// Keyword names never auto-associated from replies
	ForbiddenKeywords []string `yaml:"forbidden_keywords"`
}

// DefaultCheckerLists returns the built-in checker lists
func DefaultCheckerLists() *CheckerLists {
	return &CheckerLists{
		PingMessages:  []string{"/start", "/help"},
		InlineQueries: []string{"test", "a"},
		OfflinePatterns: []string{
			`bot (is )?(currently )?(down|offline|disabled)`,
			`under maintenance`,
			`down for maintenance`,
			`currently unavailable`,
			`not (available|working) (right now|at the moment)`,
		},
		BotBuilderPatterns: []string{
			`manybot`,
			`chatfuel`,
			`botmother`,
			`created with`,
			`powered by @?\w*bot\w*builder`,
		},
		ForbiddenKeywords: []string{
			"bot", "bots", "telegram", "start", "help", "the", "and",
		},
	}
}

// LoadCheckerLists loads the checker lists from a YAML file. A missing
// file yields the defaults; list fields absent from the file fall back
// to the defaults as well.
func LoadCheckerLists(path string) (*CheckerLists, error) {
	lists := DefaultCheckerLists()
	if path == "" {
		return lists, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lists, nil
		}
		return nil, fmt.Errorf("failed to read checker config: %w", err)
	}

	var loaded CheckerLists
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse checker config: %w", err)
	}

	if len(loaded.PingMessages) > 0 {
		lists.PingMessages = loaded.PingMessages
	}
	if len(loaded.InlineQueries) > 0 {
		lists.InlineQueries = loaded.InlineQueries
	}
	if len(loaded.OfflinePatterns) > 0 {
		lists.OfflinePatterns = loaded.OfflinePatterns
	}
	if len(loaded.BotBuilderPatterns) > 0 {
		lists.BotBuilderPatterns = loaded.BotBuilderPatterns
	}
	if len(loaded.ForbiddenKeywords) > 0 {
		lists.ForbiddenKeywords = loaded.ForbiddenKeywords
	}
	return lists, nil
}
