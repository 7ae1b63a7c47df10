package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// InsertAll bulk-inserts entries inside one transaction and returns the
// number of rows actually inserted. Entries that would violate the
// (sorted_key, word) uniqueness invariant are skipped, not errors, so the
// call is idempotent.
func (s *Store) InsertAll(ctx context.Context, entries []AnagramEntry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin insert: %w", err)
	}
	defer tx.Rollback()

	query, _, err := qb.Insert("anagram_entries").
		Options("OR IGNORE").
		Columns("sorted_key", "word", "length", "is_common").
		Values("", "", 0, 0).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("store: build insert: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("store: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, e := range entries {
		res, err := stmt.ExecContext(ctx, e.SortedKey, e.Word, e.Length, boolToInt(e.IsCommon))
		if err != nil {
			return 0, fmt.Errorf("store: insert %q: %w", e.Word, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("store: rows affected: %w", err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit insert: %w", err)
	}
	return inserted, nil
}

// Lookup returns all words sharing sortedKey, ordered lexicographically.
func (s *Store) Lookup(ctx context.Context, sortedKey string) ([]string, error) {
	query, args, err := qb.Select("word").
		From("anagram_entries").
		Where(sq.Eq{"sorted_key": sortedKey}).
		OrderBy("word").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("store: build lookup: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: lookup %q: %w", sortedKey, err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("store: scan word: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: lookup rows: %w", err)
	}
	return words, nil
}

// Count returns the total number of entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.countWhere(ctx, nil)
}

// CountInRange returns the number of entries whose length is within
// [minLen, maxLen].
func (s *Store) CountInRange(ctx context.Context, minLen, maxLen int) (int64, error) {
	return s.countWhere(ctx, lengthRange(minLen, maxLen, false))
}

// CountCommonInRange is CountInRange restricted to common entries.
func (s *Store) CountCommonInRange(ctx context.Context, minLen, maxLen int) (int64, error) {
	return s.countWhere(ctx, lengthRange(minLen, maxLen, true))
}

// EntryAtOffset returns the entry at the given offset into the set of
// entries with length in [minLen, maxLen], ordered by id. The ordering is
// deterministic so a caller can sample without bias by drawing offset
// uniformly from [0, count). Returns nil when the offset is out of range.
func (s *Store) EntryAtOffset(ctx context.Context, minLen, maxLen int, offset int64) (*AnagramEntry, error) {
	return s.entryAtOffset(ctx, lengthRange(minLen, maxLen, false), offset)
}

// CommonEntryAtOffset is EntryAtOffset restricted to common entries.
func (s *Store) CommonEntryAtOffset(ctx context.Context, minLen, maxLen int, offset int64) (*AnagramEntry, error) {
	return s.entryAtOffset(ctx, lengthRange(minLen, maxLen, true), offset)
}

func lengthRange(minLen, maxLen int, commonOnly bool) sq.Sqlizer {
	cond := sq.And{
		sq.GtOrEq{"length": minLen},
		sq.LtOrEq{"length": maxLen},
	}
	if commonOnly {
		cond = append(cond, sq.Eq{"is_common": 1})
	}
	return cond
}

func (s *Store) countWhere(ctx context.Context, cond sq.Sqlizer) (int64, error) {
	b := qb.Select("COUNT(*)").From("anagram_entries")
	if cond != nil {
		b = b.Where(cond)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("store: build count: %w", err)
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}

func (s *Store) entryAtOffset(ctx context.Context, cond sq.Sqlizer, offset int64) (*AnagramEntry, error) {
	if offset < 0 {
		return nil, fmt.Errorf("store: negative offset %d", offset)
	}
	query, args, err := qb.Select("id", "sorted_key", "word", "length", "is_common").
		From("anagram_entries").
		Where(cond).
		OrderBy("id").
		Limit(1).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("store: build offset query: %w", err)
	}

	var (
		e        AnagramEntry
		isCommon int
	)
	err = s.db.QueryRowContext(ctx, query, args...).
		Scan(&e.ID, &e.SortedKey, &e.Word, &e.Length, &isCommon)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: entry at offset %d: %w", offset, err)
	}
	e.IsCommon = isCommon != 0
	return &e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
