package data

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/botlistbot/botlistd/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// Repositories contains all repositories
type Repositories struct {
	Bots     repo.BotRepo
	Keywords repo.KeywordRepo

	db *sql.DB
}

// NewRepositories opens the store and creates all repositories
func NewRepositories(dbPath string) (*Repositories, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	botRepo, err := NewBotRepo(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	keywordRepo, err := NewKeywordRepo(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Repositories{
		Bots:     botRepo,
		Keywords: keywordRepo,
		db:       db,
	}, nil
}

// Close closes the shared database connection
func (r *Repositories) Close() error {
	return r.db.Close()
}
