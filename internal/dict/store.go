package dict

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Schema for the learned-words store.
const storeSchema = `
CREATE TABLE IF NOT EXISTS user_words (
    pinyin      TEXT NOT NULL,
    word        TEXT NOT NULL,
    freq        REAL NOT NULL DEFAULT 1,
    updated_at  INTEGER NOT NULL,
    PRIMARY KEY (pinyin, word)
);

CREATE INDEX IF NOT EXISTS idx_user_words_pinyin ON user_words(pinyin);
`

// SelectionBoost is how much one explicit candidate selection is worth.
const SelectionBoost = 10

// Store persists words the user has picked so they rank higher next time.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the SQLite store at path.
func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=2000")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordSelection bumps the learned frequency of a picked word.
func (s *Store) RecordSelection(pinyin, word string) error {
	if pinyin == "" || word == "" {
		return nil
	}
	_, err := s.db.Exec(`
		INSERT INTO user_words (pinyin, word, freq, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(pinyin, word) DO UPDATE SET
			freq = freq + excluded.freq,
			updated_at = excluded.updated_at`,
		pinyin, word, float64(SelectionBoost), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("record selection: %w", err)
	}
	return nil
}

// All returns every learned row, for merging into the in-memory table.
func (s *Store) All() ([]FileEntry, error) {
	rows, err := s.db.Query(`SELECT pinyin, word, freq FROM user_words`)
	if err != nil {
		return nil, fmt.Errorf("query user words: %w", err)
	}
	defer rows.Close()

	var out []FileEntry
	for rows.Next() {
		var e FileEntry
		if err := rows.Scan(&e.Pinyin, &e.Word, &e.Freq); err != nil {
			return nil, fmt.Errorf("scan user word: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Forget removes a learned word.
func (s *Store) Forget(pinyin, word string) error {
	_, err := s.db.Exec(`DELETE FROM user_words WHERE pinyin = ? AND word = ?`, pinyin, word)
	if err != nil {
		return fmt.Errorf("forget word: %w", err)
	}
	return nil
}
