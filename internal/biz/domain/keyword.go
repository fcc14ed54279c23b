package domain

// Keyword is a tag associated with a bot, discovered from its replies
// or added through the suggestion workflow.
type Keyword struct {
	ID    int64
	BotID int64
	Name  string
}
