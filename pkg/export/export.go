// Package export writes parsed anagram rows as a delimited text seed or
// as a prebuilt indexed snapshot. Both exports are all-or-nothing: an
// existing destination aborts the export unless overwrite was requested,
// and data is staged in a temporary file that is renamed into place only
// on success.
package export

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kanaru-io/kanagram/pkg/jmdict"
	"github.com/kanaru-io/kanagram/pkg/store"
)

// batchSize bounds the rows per insert transaction in snapshot exports.
const batchSize = 5000

// ErrExists is wrapped into errors about destinations that already exist.
var ErrExists = os.ErrExist

func checkDestination(path string, force bool) error {
	if _, err := os.Stat(path); err == nil {
		if !force {
			return fmt.Errorf("export: destination exists: %s: %w", path, ErrExists)
		}
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("export: stat %s: %w", path, err)
	}
	return nil
}

// TSV writes rows sorted by word as a three-column tab-separated seed
// file with a header comment line. The common flag is not part of the
// text format; only the snapshot export carries it.
func TSV(rows []jmdict.Row, path string, force bool) error {
	if err := checkDestination(path, force); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: mkdir for %s: %w", path, err)
	}

	sorted := make([]jmdict.Row, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Word < sorted[j].Word })

	tmp, err := os.CreateTemp(filepath.Dir(path), ".seed-*.tsv")
	if err != nil {
		return fmt.Errorf("export: temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	w := bufio.NewWriter(tmp)
	if _, err := fmt.Fprintln(w, "# sorted_key\tword\tlength"); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, r := range sorted {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d\n", r.SortedKey, r.Word, r.Length); err != nil {
			return fmt.Errorf("export: write row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("export: flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export: close temp: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("export: rename into place: %w", err)
	}
	return nil
}

// Snapshot writes rows into a fresh indexed store at path. The snapshot
// carries both tables, all indexes, and the schema version tag, written
// through the store's own migration mechanism so it is always structurally
// identical to a freshly opened application store.
func Snapshot(ctx context.Context, rows []jmdict.Row, path string, force bool) error {
	if err := checkDestination(path, force); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: mkdir for %s: %w", path, err)
	}

	tmpPath := filepath.Join(filepath.Dir(path), fmt.Sprintf(".snapshot-%d.db", os.Getpid()))
	defer os.Remove(tmpPath)

	st, err := store.Open(tmpPath)
	if err != nil {
		return fmt.Errorf("export: create snapshot store: %w", err)
	}

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		batch := make([]store.AnagramEntry, 0, end-start)
		for _, r := range rows[start:end] {
			batch = append(batch, store.AnagramEntry{
				SortedKey: r.SortedKey,
				Word:      r.Word,
				Length:    r.Length,
				IsCommon:  r.IsCommon,
			})
		}
		if _, err := st.InsertAll(ctx, batch); err != nil {
			st.Close()
			return fmt.Errorf("export: insert batch: %w", err)
		}
	}

	if err := st.Close(); err != nil {
		return fmt.Errorf("export: close snapshot store: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("export: rename into place: %w", err)
	}
	return nil
}
