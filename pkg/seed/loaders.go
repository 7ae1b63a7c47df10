// Package seed populates an empty entry store from the best available
// data source: a prebuilt versioned snapshot, a plain TSV export, or a
// tiny built-in demonstration set, in that strict priority order.
package seed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kanaru-io/kanagram/pkg/store"
)

// Source tags where seed data came from.
type Source string

const (
	// SourceExisting means the store already had entries; nothing ran.
	SourceExisting Source = "existing_db"
	// SourceSnapshot is the prebuilt indexed snapshot.
	SourceSnapshot Source = "seed_db"
	// SourceTSV is the plain delimited text export.
	SourceTSV Source = "seed_tsv"
	// SourceBuiltin is the last-resort demonstration set.
	SourceBuiltin Source = "builtin"
)

// EntryLoader supplies candidate seed entries from one source. A loader
// returning no entries and no error is simply absent; the resolver moves
// on to the next source.
type EntryLoader interface {
	Name() Source
	Load(ctx context.Context) ([]store.AnagramEntry, error)
}

// FormatError reports a malformed line in a delimited seed file.
type FormatError struct {
	File string
	Line int // 1-based
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// SnapshotLoader reads the bundled prebuilt database. Any structural
// problem (version mismatch, missing column, null field) rejects the
// snapshot as a whole.
type SnapshotLoader struct {
	Path string
}

func (l *SnapshotLoader) Name() Source { return SourceSnapshot }

func (l *SnapshotLoader) Load(_ context.Context) ([]store.AnagramEntry, error) {
	if l.Path == "" {
		return nil, nil
	}
	if _, err := os.Stat(l.Path); err != nil {
		// Absent snapshot is not an error, just unavailable.
		return nil, nil
	}
	return store.ReadSnapshot(l.Path)
}

// TSVLoader reads a tab-separated seed export.
type TSVLoader struct {
	Path string
}

func (l *TSVLoader) Name() Source { return SourceTSV }

func (l *TSVLoader) Load(_ context.Context) ([]store.AnagramEntry, error) {
	if l.Path == "" {
		return nil, nil
	}
	f, err := os.Open(l.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("seed: open %s: %w", l.Path, err)
	}
	defer f.Close()
	return ParseEntries(f, l.Path)
}

// ParseEntries parses the delimited seed format: UTF-8, tab-separated,
// exactly three columns (sorted_key, word, length). Lines starting with
// '#' and blank lines are skipped. Any malformed line, including one
// with extra columns, is a *FormatError naming the file and 1-based
// line number. The text format carries no common flag; entries loaded
// from it are never marked common.
func ParseEntries(r io.Reader, fileName string) ([]store.AnagramEntry, error) {
	var entries []store.AnagramEntry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		columns := strings.Split(line, "\t")
		if len(columns) != 3 {
			return nil, &FormatError{File: fileName, Line: lineNo, Msg: fmt.Sprintf("expected 3 columns, got %d", len(columns))}
		}

		sortedKey := strings.TrimSpace(columns[0])
		word := strings.TrimSpace(columns[1])
		lengthText := strings.TrimSpace(columns[2])
		if sortedKey == "" || word == "" || lengthText == "" {
			return nil, &FormatError{File: fileName, Line: lineNo, Msg: "empty column"}
		}

		length, err := strconv.Atoi(lengthText)
		if err != nil {
			return nil, &FormatError{File: fileName, Line: lineNo, Msg: fmt.Sprintf("length is not an integer: %q", lengthText)}
		}

		entries = append(entries, store.AnagramEntry{
			SortedKey: sortedKey,
			Word:      word,
			Length:    length,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", fileName, err)
	}
	return entries, nil
}

// BuiltinLoader supplies the fixed demonstration set used when no other
// source is available.
type BuiltinLoader struct{}

func (BuiltinLoader) Name() Source { return SourceBuiltin }

func (BuiltinLoader) Load(_ context.Context) ([]store.AnagramEntry, error) {
	return []store.AnagramEntry{
		{SortedKey: "ごりん", Word: "りんご", Length: 3},
		{SortedKey: "くさら", Word: "さくら", Length: 3},
		{SortedKey: "あいう", Word: "あいう", Length: 3},
	}, nil
}
