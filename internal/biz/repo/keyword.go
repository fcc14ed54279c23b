package repo

import "context"

// KeywordRepo is the keyword repository interface
type KeywordRepo interface {
	// DistinctNamesExcluding returns every known keyword name that is
	// not already associated with the given bot.
	DistinctNamesExcluding(ctx context.Context, botID int64) ([]string, error)

	// AddBatch associates the given keyword names with a bot in one
	// batch. Existing (name, bot) pairs are ignored.
	AddBatch(ctx context.Context, botID int64, names []string) error

	// Close closes the underlying store
	Close() error
}
