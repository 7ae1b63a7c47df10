// Package anagram is the lookup and quiz facade over the entry store.
// All operations wait on the seed readiness gate before touching the
// store, so callers never observe a partially seeded database.
package anagram

import (
	"context"
	"log/slog"
	"math/rand"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kanaru-io/kanagram/pkg/hiragana"
	"github.com/kanaru-io/kanagram/pkg/seed"
	"github.com/kanaru-io/kanagram/pkg/store"
)

// cacheSize bounds the lookup memoization cache. Entries are small
// (a key plus a handful of words), so this is generous for a session.
const cacheSize = 256

// shuffleRetries bounds how often a quiz shuffle is retried to differ
// from the original word.
const shuffleRetries = 10

// Question is one quiz round: the scrambled characters to present, the
// canonical key they reduce to, and every dictionary word matching it.
type Question struct {
	Shuffled []string
	Key      string
	Answers  []string
}

// Service answers anagram lookups and generates quiz questions.
type Service struct {
	store *store.Store
	gate  *seed.Gate
	cache *lru.Cache[string, []string]
	log   *slog.Logger
	rand  *rand.Rand
}

// NewService builds a service over st, gated on readiness. rng may be
// nil, in which case the shared math/rand source is used.
func NewService(st *store.Store, gate *seed.Gate, logger *slog.Logger, rng *rand.Rand) *Service {
	cache, _ := lru.New[string, []string](cacheSize)
	return &Service{
		store: st,
		gate:  gate,
		cache: cache,
		log:   logger,
		rand:  rng,
	}
}

func (s *Service) intn(n int) int {
	if s.rand != nil {
		return s.rand.Intn(n)
	}
	return rand.Intn(n)
}

// Lookup normalizes input and returns every word whose sorted key
// matches, in word order. Lookups are memoized; entries only change
// through ApplyAdditional, which purges the cache.
func (s *Service) Lookup(ctx context.Context, input string) ([]string, error) {
	normalized, err := hiragana.Normalize(input)
	if err != nil {
		return nil, err
	}
	key := hiragana.SortKey(normalized)

	if err := s.gate.Await(ctx); err != nil {
		return nil, err
	}

	// The cache keeps its own copy and hands out copies; callers are free
	// to mutate the result without corrupting the memoized value.
	if words, ok := s.cache.Get(key); ok {
		return slices.Clone(words), nil
	}
	words, err := s.store.Lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, slices.Clone(words))
	return words, nil
}

// GenerateQuestion samples a word with length in [minLen, maxLen] and
// returns it as a scrambled question. Common words are preferred: when
// any common word fits the window, the sample is drawn uniformly from
// the common subset only. Returns nil when no word fits.
func (s *Service) GenerateQuestion(ctx context.Context, minLen, maxLen int) (*Question, error) {
	if err := s.gate.Await(ctx); err != nil {
		return nil, err
	}

	entry, err := s.sampleEntry(ctx, minLen, maxLen)
	if err != nil || entry == nil {
		return nil, err
	}

	answers, err := s.store.Lookup(ctx, entry.SortedKey)
	if err != nil {
		return nil, err
	}

	return &Question{
		Shuffled: s.shuffle(entry.Word),
		Key:      entry.SortedKey,
		Answers:  answers,
	}, nil
}

func (s *Service) sampleEntry(ctx context.Context, minLen, maxLen int) (*store.AnagramEntry, error) {
	common, err := s.store.CountCommonInRange(ctx, minLen, maxLen)
	if err != nil {
		return nil, err
	}
	if common > 0 {
		return s.store.CommonEntryAtOffset(ctx, minLen, maxLen, int64(s.intn(int(common))))
	}

	total, err := s.store.CountInRange(ctx, minLen, maxLen)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}
	return s.store.EntryAtOffset(ctx, minLen, maxLen, int64(s.intn(int(total))))
}

// shuffle permutes the word's characters, retrying a bounded number of
// times so the presented order differs from the word itself. A word
// whose characters admit only one ordering comes back unchanged.
func (s *Service) shuffle(word string) []string {
	runes := []rune(word)
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	if len(out) <= 1 {
		return out
	}

	for attempt := 0; attempt < shuffleRetries; attempt++ {
		for i := len(out) - 1; i > 0; i-- {
			j := s.intn(i + 1)
			out[i], out[j] = out[j], out[i]
		}
		if joined(out) != word {
			break
		}
	}
	return out
}

func joined(chars []string) string {
	total := 0
	for _, c := range chars {
		total += len(c)
	}
	b := make([]byte, 0, total)
	for _, c := range chars {
		b = append(b, c...)
	}
	return string(b)
}

// ApplyAdditional inserts user-supplied entries under the store's
// uniqueness rules and reports how many were new out of how many were
// supplied. The lookup cache is purged so new words become visible.
func (s *Service) ApplyAdditional(ctx context.Context, entries []store.AnagramEntry) (inserted, supplied int64, err error) {
	if err := s.gate.Await(ctx); err != nil {
		return 0, 0, err
	}

	inserted, err = s.store.InsertAll(ctx, entries)
	if err != nil {
		return 0, 0, err
	}
	s.cache.Purge()

	s.log.Info("additional dictionary applied",
		slog.Int64("inserted", inserted),
		slog.Int("supplied", len(entries)))
	return inserted, int64(len(entries)), nil
}
