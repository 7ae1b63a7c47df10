package jmdict

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnsureLexiconDownloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sampleLexicon))
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "lexicon", "JMdict_e.xml")
	require.NoError(t, EnsureLexicon(context.Background(), path, srv.URL, discardLogger()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleLexicon, string(data))
}

func TestEnsureLexiconSkipsExisting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("existing lexicon must not be re-downloaded")
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "JMdict_e.xml")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0o644))

	require.NoError(t, EnsureLexicon(context.Background(), path, srv.URL, discardLogger()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestEnsureLexiconServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "JMdict_e.xml")
	require.Error(t, EnsureLexicon(context.Background(), path, srv.URL, discardLogger()))

	// No partial file is left behind.
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
