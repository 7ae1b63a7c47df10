package anagram

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrSuperseded means a newer search started while this one was in
// flight; its result was discarded.
var ErrSuperseded = errors.New("anagram: search superseded by a newer request")

// Searcher serializes the intent of rapid successive searches: only the
// most recently issued request may deliver a result. Stale in-flight
// work finishes but is discarded, so a fast new query is never blocked
// behind a slow old one.
type Searcher struct {
	service *Service
	seq     atomic.Uint64
}

func NewSearcher(service *Service) *Searcher {
	return &Searcher{service: service}
}

// Search runs a lookup under last-request-wins semantics.
func (s *Searcher) Search(ctx context.Context, input string) ([]string, error) {
	ticket := s.seq.Add(1)

	words, err := s.service.Lookup(ctx, input)
	if s.seq.Load() != ticket {
		return nil, ErrSuperseded
	}
	return words, err
}
