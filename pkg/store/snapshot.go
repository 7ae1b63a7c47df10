package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
)

// ErrSnapshotInvalid marks a prebuilt snapshot that cannot be trusted:
// wrong schema version, missing column, or a NULL required field. The
// snapshot is rejected as a whole; it is never partially adopted.
var ErrSnapshotInvalid = errors.New("store: snapshot invalid")

// ReadSnapshot opens the prebuilt database at path read-only and returns
// all of its anagram entries. The snapshot's user_version must equal
// SchemaVersion exactly.
func ReadSnapshot(path string) ([]AnagramEntry, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("store: snapshot %s: %w", path, err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&immutable=1")
	if err != nil {
		return nil, fmt.Errorf("store: open snapshot %s: %w", path, err)
	}
	defer db.Close()

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return nil, fmt.Errorf("%w: read version tag: %v", ErrSnapshotInvalid, err)
	}
	if version != SchemaVersion {
		return nil, fmt.Errorf("%w: version %d, expected %d", ErrSnapshotInvalid, version, SchemaVersion)
	}

	rows, err := db.Query("SELECT sorted_key, word, length, is_common FROM anagram_entries")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	defer rows.Close()

	var entries []AnagramEntry
	for rows.Next() {
		var (
			sortedKey, word sql.NullString
			length, common  sql.NullInt64
		)
		if err := rows.Scan(&sortedKey, &word, &length, &common); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
		}
		if !sortedKey.Valid || !word.Valid || !length.Valid || !common.Valid ||
			sortedKey.String == "" || word.String == "" {
			return nil, fmt.Errorf("%w: null or empty required field", ErrSnapshotInvalid)
		}
		entries = append(entries, AnagramEntry{
			SortedKey: sortedKey.String,
			Word:      word.String,
			Length:    int(length.Int64),
			IsCommon:  common.Int64 != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	return entries, nil
}
