// Package detail resolves the kanji form and gloss for a dictionary word.
//
// Resolution is a strict two-tier-plus-remote precedence chain: bundled
// seed annotations win over the local cache, which wins over a remote
// lookup. A remote result is persisted into the cache, but never for a
// word the seed already covers, so stale cache data can never shadow
// authoritative data.
package detail

import (
	"context"
	"log/slog"
	"time"

	"github.com/kanaru-io/kanagram/pkg/store"
)

// Detail is the script form and gloss for a word.
type Detail struct {
	Kanji   string
	Meaning string
}

// Source fetches a detail from a remote dictionary. Fetch returns
// (nil, nil) when the word has no usable detail.
type Source interface {
	Fetch(ctx context.Context, word string) (*Detail, error)
}

// Resolver merges seed annotations, the persistent cache, and a remote
// source, in that order of precedence.
type Resolver struct {
	seeds  map[string]Detail
	store  *store.Store
	remote Source
	log    *slog.Logger
	now    func() time.Time
}

// NewResolver builds a resolver. remote may be nil, in which case
// resolution stops after the cache tier.
func NewResolver(seeds map[string]Detail, st *store.Store, remote Source, logger *slog.Logger) *Resolver {
	if seeds == nil {
		seeds = map[string]Detail{}
	}
	return &Resolver{
		seeds:  seeds,
		store:  st,
		remote: remote,
		log:    logger,
		now:    time.Now,
	}
}

// Resolve returns the detail for word, or nil when none is available.
// Remote failures degrade to "no detail": they are logged, leave state
// unchanged, and are never surfaced as hard errors. Only store access
// faults propagate.
func (r *Resolver) Resolve(ctx context.Context, word string) (*Detail, error) {
	if d, ok := r.seeds[word]; ok {
		return &d, nil
	}

	cached, err := r.store.FindDetail(ctx, word)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return &Detail{Kanji: cached.Kanji, Meaning: cached.Meaning}, nil
	}

	if r.remote == nil {
		return nil, nil
	}
	fetched, err := r.remote.Fetch(ctx, word)
	if err != nil {
		r.log.Warn("remote detail fetch failed",
			slog.String("word", word),
			slog.String("error", err.Error()))
		return nil, nil
	}
	if fetched == nil {
		return nil, nil
	}

	// The seed tier already missed, so this cannot overwrite a
	// seed-supplied annotation. The upsert is idempotent; racing fetches
	// for the same word converge.
	err = r.store.UpsertDetail(ctx, store.CachedDetail{
		Word:      word,
		Kanji:     fetched.Kanji,
		Meaning:   fetched.Meaning,
		UpdatedAt: r.now().UnixMilli(),
	})
	if err != nil {
		r.log.Warn("detail cache write failed",
			slog.String("word", word),
			slog.String("error", err.Error()))
	}
	return fetched, nil
}

// Details returns the merged annotation map: every cached detail plus
// every seed detail, with seed values overriding cached ones for the
// same word.
func (r *Resolver) Details(ctx context.Context) (map[string]Detail, error) {
	cached, err := r.store.AllDetails(ctx)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]Detail, len(cached)+len(r.seeds))
	for word, d := range cached {
		merged[word] = Detail{Kanji: d.Kanji, Meaning: d.Meaning}
	}
	// Seed wins; this loop runs second on purpose.
	for word, d := range r.seeds {
		merged[word] = d
	}
	return merged, nil
}
