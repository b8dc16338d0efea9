// Package store persists the transition model and the user corpus in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/f3rmion/pyime/internal/hmm"
	_ "modernc.org/sqlite"
)

// Schema for the pyime database. Counts are append-only: every write adds
// to the stored value.
const schema = `
CREATE TABLE IF NOT EXISTS trans_prob (
    curr_   TEXT NOT NULL,
    prev_   TEXT NOT NULL,
    count_  INTEGER NOT NULL,
    PRIMARY KEY (curr_, prev_)
);

CREATE TABLE IF NOT EXISTS word_weight (
    word_   TEXT PRIMARY KEY,
    weight_ INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS used_phrase (
    phrase_ TEXT PRIMARY KEY,
    count_  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS used_latin (
    word_   TEXT PRIMARY KEY,
    count_  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS used_emoji (
    emoji_  TEXT PRIMARY KEY,
    count_  INTEGER NOT NULL
);
`

// phraseSep joins phrase words in used_phrase.
const phraseSep = ","

// Usage is one user corpus entry and how often it was committed.
type Usage struct {
	Value string
	Count int
}

// Store is the SQLite-backed model and corpus store.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Single writer; SQLite serialises anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// AddTransitions adds transition count deltas and word weight deltas in
// one transaction.
func (s *Store) AddTransitions(ctx context.Context, entries []hmm.Entry, weights map[string]int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	trans, err := tx.PrepareContext(ctx, `
		INSERT INTO trans_prob (curr_, prev_, count_) VALUES (?, ?, ?)
		ON CONFLICT (curr_, prev_) DO UPDATE SET count_ = count_ + excluded.count_`)
	if err != nil {
		return fmt.Errorf("preparing transition insert: %w", err)
	}
	defer trans.Close()

	for _, e := range entries {
		if _, err := trans.ExecContext(ctx, e.Curr, e.Prev, e.Count); err != nil {
			return fmt.Errorf("adding transition %s<-%s: %w", e.Curr, e.Prev, err)
		}
	}

	weight, err := tx.PrepareContext(ctx, `
		INSERT INTO word_weight (word_, weight_) VALUES (?, ?)
		ON CONFLICT (word_) DO UPDATE SET weight_ = weight_ + excluded.weight_`)
	if err != nil {
		return fmt.Errorf("preparing weight insert: %w", err)
	}
	defer weight.Close()

	for w, c := range weights {
		if _, err := weight.ExecContext(ctx, w, c); err != nil {
			return fmt.Errorf("adding weight of %s: %w", w, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transitions: %w", err)
	}
	return nil
}

// LoadModel reads the whole transition table into a new model.
func (s *Store) LoadModel(ctx context.Context, opts ...hmm.Option) (*hmm.Model, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT curr_, prev_, count_ FROM trans_prob`)
	if err != nil {
		return nil, fmt.Errorf("querying transitions: %w", err)
	}
	defer rows.Close()

	var entries []hmm.Entry
	for rows.Next() {
		var e hmm.Entry
		if err := rows.Scan(&e.Curr, &e.Prev, &e.Count); err != nil {
			return nil, fmt.Errorf("scanning transition: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading transitions: %w", err)
	}

	weights, err := s.counts(ctx, `SELECT word_, weight_ FROM word_weight`)
	if err != nil {
		return nil, err
	}

	m := make(map[string]int, len(weights))
	for _, u := range weights {
		m[u.Value] = u.Count
	}
	return hmm.FromEntries(entries, m, opts...), nil
}

// RecordPhrase counts one committed phrase.
func (s *Store) RecordPhrase(ctx context.Context, phrase []string) error {
	if len(phrase) == 0 {
		return nil
	}
	return s.bump(ctx, "used_phrase", "phrase_", strings.Join(phrase, phraseSep))
}

// RecordLatin counts one committed Latin word.
func (s *Store) RecordLatin(ctx context.Context, word string) error {
	return s.bump(ctx, "used_latin", "word_", word)
}

// RecordEmoji counts one committed emoji.
func (s *Store) RecordEmoji(ctx context.Context, emoji string) error {
	return s.bump(ctx, "used_emoji", "emoji_", emoji)
}

// Phrases returns the committed phrases, most used first.
func (s *Store) Phrases(ctx context.Context, limit int) ([][]string, []int, error) {
	usages, err := s.counts(ctx, `SELECT phrase_, count_ FROM used_phrase ORDER BY count_ DESC, phrase_ LIMIT ?`, limitOrAll(limit))
	if err != nil {
		return nil, nil, err
	}

	phrases := make([][]string, len(usages))
	counts := make([]int, len(usages))
	for i, u := range usages {
		phrases[i] = strings.Split(u.Value, phraseSep)
		counts[i] = u.Count
	}
	return phrases, counts, nil
}

// LatinWords returns committed Latin words starting with prefix, most used first.
func (s *Store) LatinWords(ctx context.Context, prefix string, limit int) ([]Usage, error) {
	return s.counts(ctx, `
		SELECT word_, count_ FROM used_latin
		WHERE substr(lower(word_), 1, length(?)) = lower(?)
		ORDER BY count_ DESC, word_ LIMIT ?`, prefix, prefix, limitOrAll(limit))
}

// Emojis returns committed emojis, most used first.
func (s *Store) Emojis(ctx context.Context, limit int) ([]Usage, error) {
	return s.counts(ctx, `SELECT emoji_, count_ FROM used_emoji ORDER BY count_ DESC, emoji_ LIMIT ?`, limitOrAll(limit))
}

func (s *Store) bump(ctx context.Context, table, column, value string) error {
	if value == "" {
		return nil
	}
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, count_) VALUES (?, 1)
		ON CONFLICT (%[2]s) DO UPDATE SET count_ = count_ + 1`, table, column)
	if _, err := s.db.ExecContext(ctx, query, value); err != nil {
		return fmt.Errorf("recording %s: %w", table, err)
	}
	return nil
}

func (s *Store) counts(ctx context.Context, query string, args ...any) ([]Usage, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying counts: %w", err)
	}
	defer rows.Close()

	var out []Usage
	for rows.Next() {
		var u Usage
		if err := rows.Scan(&u.Value, &u.Count); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading counts: %w", err)
	}
	return out, nil
}

func limitOrAll(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
