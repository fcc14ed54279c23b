package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/botlistbot/botlistd/internal/biz/repo"
)

// keywordRepo implements the Keyword repository
type keywordRepo struct {
	db *sql.DB
}

// NewKeywordRepo creates a new Keyword repository on an open database
func NewKeywordRepo(db *sql.DB) (repo.KeywordRepo, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS keywords (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			bot_id INTEGER NOT NULL,
			UNIQUE(name, bot_id)
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create keywords table: %w", err)
	}
	return &keywordRepo{db: db}, nil
}

// DistinctNamesExcluding returns every known keyword name not already
// associated with the given bot
func (r *keywordRepo) DistinctNamesExcluding(ctx context.Context, botID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT name FROM keywords
		WHERE name NOT IN (SELECT name FROM keywords WHERE bot_id = ?)
		ORDER BY name
	`, botID)
	if err != nil {
		return nil, fmt.Errorf("failed to list keyword names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan keyword name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AddBatch associates keyword names with a bot in one transaction
func (r *keywordRepo) AddBatch(ctx context.Context, botID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO keywords (name, bot_id) VALUES (?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, name := range names {
		if _, err := stmt.ExecContext(ctx, name, botID); err != nil {
			return fmt.Errorf("failed to insert keyword %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit keywords: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *keywordRepo) Close() error {
	return r.db.Close()
}
