package jmdict

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DefaultLexiconURL is the upstream location of the gzipped JMdict
// English edition.
const DefaultLexiconURL = "http://ftp.edrdg.org/pub/Nihongo/JMdict_e.gz"

const downloadTimeout = 10 * time.Minute

// EnsureLexicon makes sure a lexicon file exists at path, downloading it
// from url when absent. The download is staged in a temporary file and
// renamed into place only when complete, so an interrupted run never
// leaves a truncated lexicon behind.
func EnsureLexicon(ctx context.Context, path, url string, logger *slog.Logger) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("jmdict: stat %s: %w", path, err)
	}
	if url == "" {
		url = DefaultLexiconURL
	}

	logger.Info("downloading lexicon", slog.String("url", url), slog.String("path", path))

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("jmdict: create download request: %w", err)
	}
	req.Header.Set("User-Agent", "kanagram-seedgen")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("jmdict: download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jmdict: download failed: %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("jmdict: mkdir for %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".lexicon-*")
	if err != nil {
		return fmt.Errorf("jmdict: temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	written, err := io.Copy(tmp, resp.Body)
	if err != nil {
		return fmt.Errorf("jmdict: write lexicon: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jmdict: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("jmdict: rename into place: %w", err)
	}

	logger.Info("lexicon downloaded", slog.String("path", path), slog.Int64("bytes", written))
	return nil
}
