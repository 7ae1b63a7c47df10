package seed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/kanaru-io/kanagram/pkg/store"
)

// Gate is a one-shot readiness barrier. Operations that must not observe
// a partially seeded store call Await before touching it; the resolver
// opens the gate exactly once, after seeding completes.
type Gate struct {
	done chan struct{}
	once sync.Once
}

// NewGate returns a closed gate.
func NewGate() *Gate {
	return &Gate{done: make(chan struct{})}
}

// Open marks the gate ready. Safe to call more than once.
func (g *Gate) Open() {
	g.once.Do(func() { close(g.done) })
}

// Await blocks until the gate is open or ctx is done.
func (g *Gate) Await(ctx context.Context) error {
	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Metrics describes one preload run.
type Metrics struct {
	Source          Source
	TotalEntries    int64
	InsertedEntries int64
	Elapsed         time.Duration
}

// Resolver seeds an empty store from the highest-priority available
// source. The first source that yields any entries wins outright; sources
// are never merged.
type Resolver struct {
	store   *store.Store
	loaders []EntryLoader
	gate    *Gate
	log     *slog.Logger

	once    sync.Once
	metrics Metrics
	err     error
}

// NewResolver builds a resolver over the standard source priority:
// snapshot, then TSV, then the builtin set.
func NewResolver(st *store.Store, gate *Gate, logger *slog.Logger, snapshotPath, tsvPath string) *Resolver {
	return &Resolver{
		store: st,
		loaders: []EntryLoader{
			&SnapshotLoader{Path: snapshotPath},
			&TSVLoader{Path: tsvPath},
			BuiltinLoader{},
		},
		gate: gate,
		log:  logger,
	}
}

// NewResolverWithLoaders builds a resolver over an explicit loader chain,
// tried in order. Used by tests to substitute sources.
func NewResolverWithLoaders(st *store.Store, gate *Gate, logger *slog.Logger, loaders ...EntryLoader) *Resolver {
	return &Resolver{store: st, loaders: loaders, gate: gate, log: logger}
}

// Preload seeds the store if it is empty and opens the readiness gate.
// Concurrent calls collapse into a single run; every caller receives the
// same metrics. The gate opens even when seeding fails, so dependents are
// not blocked forever; they will simply see the store as it is.
func (r *Resolver) Preload(ctx context.Context) (Metrics, error) {
	r.once.Do(func() {
		r.metrics, r.err = r.run(ctx)
		r.gate.Open()
		if r.err == nil {
			r.log.Info("seed preload finished",
				slog.String("source", string(r.metrics.Source)),
				slog.Int64("total", r.metrics.TotalEntries),
				slog.Int64("inserted", r.metrics.InsertedEntries),
				slog.Duration("elapsed", r.metrics.Elapsed),
			)
		}
	})
	return r.metrics, r.err
}

func (r *Resolver) run(ctx context.Context) (Metrics, error) {
	started := time.Now()

	before, err := r.store.Count(ctx)
	if err != nil {
		return Metrics{}, err
	}
	if before > 0 {
		return Metrics{
			Source:       SourceExisting,
			TotalEntries: before,
			Elapsed:      time.Since(started),
		}, nil
	}

	for _, loader := range r.loaders {
		entries, err := loader.Load(ctx)
		if err != nil {
			// A broken source falls through to the next one; a format
			// error is fatal to this attempt only.
			var formatErr *FormatError
			switch {
			case errors.As(err, &formatErr):
				r.log.Warn("seed source rejected",
					slog.String("source", string(loader.Name())),
					slog.String("error", formatErr.Error()))
			case errors.Is(err, store.ErrSnapshotInvalid):
				r.log.Warn("seed snapshot rejected",
					slog.String("error", err.Error()))
			default:
				r.log.Warn("seed source unavailable",
					slog.String("source", string(loader.Name())),
					slog.String("error", err.Error()))
			}
			continue
		}
		if len(entries) == 0 {
			continue
		}

		inserted, err := r.store.InsertAll(ctx, entries)
		if err != nil {
			return Metrics{}, err
		}
		total, err := r.store.Count(ctx)
		if err != nil {
			return Metrics{}, err
		}
		return Metrics{
			Source:          loader.Name(),
			TotalEntries:    total,
			InsertedEntries: inserted,
			Elapsed:         time.Since(started),
		}, nil
	}

	// Unreachable with the builtin loader at the end of the chain, but a
	// custom chain may be exhausted.
	return Metrics{Source: SourceBuiltin, Elapsed: time.Since(started)}, nil
}
