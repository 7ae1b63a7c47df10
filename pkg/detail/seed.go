package detail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kanaru-io/kanagram/pkg/seed"
)

// LoadSeed reads the bundled detail annotations from path. A missing
// file is not an error; the resolver simply runs without a seed tier.
func LoadSeed(path string) (map[string]Detail, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("detail: open seed %s: %w", path, err)
	}
	defer f.Close()
	return ParseSeed(f, path)
}

// ParseSeed parses the detail seed format: UTF-8, tab-separated, exactly
// three columns (word, kanji, meaning), '#' comments and blank lines
// skipped. Later lines for the same word overwrite earlier ones.
func ParseSeed(r io.Reader, fileName string) (map[string]Detail, error) {
	details := make(map[string]Detail)

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
			return nil, &seed.FormatError{File: fileName, Line: lineNo, Msg: fmt.Sprintf("expected 3 columns, got %d", len(columns))}
		}

		word := strings.TrimSpace(columns[0])
		kanji := strings.TrimSpace(columns[1])
		meaning := strings.TrimSpace(columns[2])
		if word == "" || kanji == "" || meaning == "" {
			return nil, &seed.FormatError{File: fileName, Line: lineNo, Msg: "empty column"}
		}

		details[word] = Detail{Kanji: kanji, Meaning: meaning}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("detail: read %s: %w", fileName, err)
	}
	return details, nil
}
