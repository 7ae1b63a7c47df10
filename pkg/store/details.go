package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// FindDetail returns the cached detail for word, or nil when absent.
func (s *Store) FindDetail(ctx context.Context, word string) (*CachedDetail, error) {
	query, args, err := qb.Select("word", "kanji", "meaning", "updated_at").
		From("candidate_detail_cache").
		Where(sq.Eq{"word": word}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("store: build detail lookup: %w", err)
	}

	var d CachedDetail
	err = s.db.QueryRowContext(ctx, query, args...).
		Scan(&d.Word, &d.Kanji, &d.Meaning, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: find detail %q: %w", word, err)
	}
	return &d, nil
}

// AllDetails returns every cached detail keyed by word.
func (s *Store) AllDetails(ctx context.Context) (map[string]CachedDetail, error) {
	query, _, err := qb.Select("word", "kanji", "meaning", "updated_at").
		From("candidate_detail_cache").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("store: build detail scan: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: all details: %w", err)
	}
	defer rows.Close()

	details := make(map[string]CachedDetail)
	for rows.Next() {
		var d CachedDetail
		if err := rows.Scan(&d.Word, &d.Kanji, &d.Meaning, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan detail: %w", err)
		}
		details[d.Word] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: detail rows: %w", err)
	}
	return details, nil
}

// UpsertDetail writes the cached detail for word, replacing any previous
// row. The write is idempotent, so racing fetches for the same word
// converge to the same final state.
func (s *Store) UpsertDetail(ctx context.Context, d CachedDetail) error {
	query, args, err := qb.Insert("candidate_detail_cache").
		Options("OR REPLACE").
		Columns("word", "kanji", "meaning", "updated_at").
		Values(d.Word, d.Kanji, d.Meaning, d.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("store: build detail upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("store: upsert detail %q: %w", d.Word, err)
	}
	return nil
}
