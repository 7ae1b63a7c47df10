package detail

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanaru-io/kanagram/pkg/seed"
	"github.com/kanaru-io/kanagram/pkg/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

type stubSource struct {
	detail *Detail
	err    error
	calls  int
}

func (s *stubSource) Fetch(context.Context, string) (*Detail, error) {
	s.calls++
	return s.detail, s.err
}

func TestResolveSeedWins(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// A stale cache row must never shadow the seed.
	require.NoError(t, st.UpsertDetail(ctx, store.CachedDetail{
		Word: "りんご", Kanji: "stale", Meaning: "stale",
	}))

	remote := &stubSource{detail: &Detail{Kanji: "remote", Meaning: "remote"}}
	seeds := map[string]Detail{"りんご": {Kanji: "林檎", Meaning: "apple"}}
	r := NewResolver(seeds, st, remote, discardLogger())

	d, err := r.Resolve(ctx, "りんご")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "林檎", d.Kanji)
	assert.Equal(t, 0, remote.calls)
}

func TestResolveCacheBeforeRemote(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.UpsertDetail(ctx, store.CachedDetail{
		Word: "ねこ", Kanji: "猫", Meaning: "cat",
	}))

	remote := &stubSource{detail: &Detail{Kanji: "remote", Meaning: "remote"}}
	r := NewResolver(nil, st, remote, discardLogger())

	d, err := r.Resolve(ctx, "ねこ")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "猫", d.Kanji)
	assert.Equal(t, 0, remote.calls)
}

func TestResolveRemotePersists(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	remote := &stubSource{detail: &Detail{Kanji: "桜", Meaning: "cherry blossom"}}
	r := NewResolver(nil, st, remote, discardLogger())

	d, err := r.Resolve(ctx, "さくら")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "桜", d.Kanji)
	assert.Equal(t, 1, remote.calls)

	// The second resolve is served from the cache.
	d, err = r.Resolve(ctx, "さくら")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "桜", d.Kanji)
	assert.Equal(t, 1, remote.calls)

	cached, err := st.FindDetail(ctx, "さくら")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "桜", cached.Kanji)
	assert.NotZero(t, cached.UpdatedAt)
}

func TestResolveRemoteFailureDegrades(t *testing.T) {
	st := newTestStore(t)
	remote := &stubSource{err: errors.New("boom")}
	r := NewResolver(nil, st, remote, discardLogger())

	d, err := r.Resolve(context.Background(), "さくら")
	require.NoError(t, err)
	assert.Nil(t, d)

	cached, err := st.FindDetail(context.Background(), "さくら")
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestResolveNoRemote(t *testing.T) {
	st := newTestStore(t)
	r := NewResolver(nil, st, nil, discardLogger())

	d, err := r.Resolve(context.Background(), "さくら")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestDetailsMergeSeedWins(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.UpsertDetail(ctx, store.CachedDetail{Word: "りんご", Kanji: "stale", Meaning: "stale"}))
	require.NoError(t, st.UpsertDetail(ctx, store.CachedDetail{Word: "ねこ", Kanji: "猫", Meaning: "cat"}))

	seeds := map[string]Detail{"りんご": {Kanji: "林檎", Meaning: "apple"}}
	r := NewResolver(seeds, st, nil, discardLogger())

	all, err := r.Details(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "林檎", all["りんご"].Kanji)
	assert.Equal(t, "猫", all["ねこ"].Kanji)
}

func TestParseSeed(t *testing.T) {
	input := strings.Join([]string{
		"# word\tkanji\tmeaning",
		"りんご\t林檎\tapple",
		"",
		"ねこ\t猫\tcat",
	}, "\n")

	seeds, err := ParseSeed(strings.NewReader(input), "details.tsv")
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, Detail{Kanji: "林檎", Meaning: "apple"}, seeds["りんご"])
}

func TestParseSeedErrors(t *testing.T) {
	_, err := ParseSeed(strings.NewReader("りんご\t林檎"), "details.tsv")
	var formatErr *seed.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, 1, formatErr.Line)

	_, err = ParseSeed(strings.NewReader("りんご\t\tapple"), "details.tsv")
	require.ErrorAs(t, err, &formatErr)
}

func TestLoadSeedAbsent(t *testing.T) {
	seeds, err := LoadSeed("/nonexistent/details.tsv")
	require.NoError(t, err)
	assert.Nil(t, seeds)

	seeds, err = LoadSeed("")
	require.NoError(t, err)
	assert.Nil(t, seeds)
}
