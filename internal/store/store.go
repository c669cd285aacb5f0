// Package store persists enriched article records in SQLite, keyed by
// canonical title.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"wikibrief/internal/core"
)

// Store is the SQLite-backed article cache.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a store instance with a SQLite database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "wikibrief.db")
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the articles table. The title primary key is what
// arbitrates the concurrent-creation race in PutNew.
func (s *Store) initialize() error {
	table := `
	CREATE TABLE IF NOT EXISTS articles (
		title TEXT PRIMARY KEY,
		summary_raw TEXT,
		summary_advanced TEXT NOT NULL,
		summary_basic TEXT NOT NULL,
		image_url TEXT,
		related_titles TEXT,
		query_history TEXT,
		summary_id TEXT,
		model_used TEXT,
		date_created DATETIME
	);`

	if _, err := s.db.Exec(table); err != nil {
		return fmt.Errorf("failed to create articles table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the record for a canonical title, or nil on a cache miss.
func (s *Store) Get(title string) (*core.ArticleRecord, error) {
	query := `
	SELECT title, summary_raw, summary_advanced, summary_basic, image_url,
	       related_titles, query_history, summary_id, model_used, date_created
	FROM articles
	WHERE title = ?`

	row := s.db.QueryRow(query, title)

	var record core.ArticleRecord
	var relatedJSON, historyJSON string

	err := row.Scan(
		&record.Title,
		&record.SummaryRaw,
		&record.Summaries.Advanced,
		&record.Summaries.Basic,
		&record.ImageURL,
		&relatedJSON,
		&historyJSON,
		&record.SummaryID,
		&record.ModelUsed,
		&record.DateCreated,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan article record: %w", err)
	}

	if err := json.Unmarshal([]byte(relatedJSON), &record.RelatedTitles); err != nil {
		return nil, fmt.Errorf("corrupt related_titles for %q: %w", title, err)
	}
	if err := json.Unmarshal([]byte(historyJSON), &record.QueryHistory); err != nil {
		return nil, fmt.Errorf("corrupt query_history for %q: %w", title, err)
	}

	return &record, nil
}

// PutNew inserts a brand-new record in a single statement, so readers
// never observe it partially populated. A title collision returns
// core.ErrDuplicateRecord and writes nothing.
func (s *Store) PutNew(record core.ArticleRecord) error {
	relatedJSON, err := json.Marshal(record.RelatedTitles)
	if err != nil {
		return fmt.Errorf("failed to encode related_titles: %w", err)
	}
	historyJSON, err := json.Marshal(record.QueryHistory)
	if err != nil {
		return fmt.Errorf("failed to encode query_history: %w", err)
	}

	query := `
	INSERT INTO articles
	(title, summary_raw, summary_advanced, summary_basic, image_url,
	 related_titles, query_history, summary_id, model_used, date_created)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.Exec(query,
		record.Title,
		record.SummaryRaw,
		record.Summaries.Advanced,
		record.Summaries.Basic,
		record.ImageURL,
		string(relatedJSON),
		string(historyJSON),
		record.SummaryID,
		record.ModelUsed,
		record.DateCreated,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return core.ErrDuplicateRecord
		}
		return fmt.Errorf("failed to insert article record: %w", err)
	}
	return nil
}

// AppendQuery adds a normalized query to an existing record's history.
// Already-present queries are a no-op, which makes the call idempotent.
func (s *Store) AppendQuery(title, normalizedQuery string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var historyJSON string
	err = tx.QueryRow(`SELECT query_history FROM articles WHERE title = ?`, title).Scan(&historyJSON)
	if err == sql.ErrNoRows {
		return fmt.Errorf("no article record for %q", title)
	}
	if err != nil {
		return fmt.Errorf("failed to read query_history: %w", err)
	}

	var history []string
	if err := json.Unmarshal([]byte(historyJSON), &history); err != nil {
		return fmt.Errorf("corrupt query_history for %q: %w", title, err)
	}

	for _, q := range history {
		if q == normalizedQuery {
			return nil // Already present
		}
	}

	history = append(history, normalizedQuery)
	updated, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode query_history: %w", err)
	}

	if _, err := tx.Exec(`UPDATE articles SET query_history = ? WHERE title = ?`, string(updated), title); err != nil {
		return fmt.Errorf("failed to update query_history: %w", err)
	}
	return tx.Commit()
}

// CacheStats summarizes the cache contents.
type CacheStats struct {
	ArticleCount int
	QueryCount   int
	CacheSize    int64
	OldestRecord time.Time
	NewestRecord time.Time
}

// Stats returns statistics about the cache.
func (s *Store) Stats() (*CacheStats, error) {
	stats := &CacheStats{}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&stats.ArticleCount); err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}

	rows, err := s.db.Query(`SELECT query_history FROM articles`)
	if err != nil {
		return nil, fmt.Errorf("failed to read query histories: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var historyJSON string
		if err := rows.Scan(&historyJSON); err != nil {
			return nil, err
		}
		var history []string
		if err := json.Unmarshal([]byte(historyJSON), &history); err == nil {
			stats.QueryCount += len(history)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.ArticleCount > 0 {
		err = s.db.QueryRow(`SELECT date_created FROM articles ORDER BY date_created ASC LIMIT 1`).
			Scan(&stats.OldestRecord)
		if err != nil {
			return nil, fmt.Errorf("failed to read oldest record date: %w", err)
		}
		err = s.db.QueryRow(`SELECT date_created FROM articles ORDER BY date_created DESC LIMIT 1`).
			Scan(&stats.NewestRecord)
		if err != nil {
			return nil, fmt.Errorf("failed to read newest record date: %w", err)
		}
	}

	if info, err := os.Stat(s.path); err == nil {
		stats.CacheSize = info.Size()
	}

	return stats, nil
}

// Clear deletes every cached record. Operator tool only; the enrichment
// pipeline never deletes.
func (s *Store) Clear() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM articles`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
