package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kanaru-io/kanagram/pkg/anagram"
	"github.com/kanaru-io/kanagram/pkg/config"
	"github.com/kanaru-io/kanagram/pkg/detail"
	"github.com/kanaru-io/kanagram/pkg/seed"
	"github.com/kanaru-io/kanagram/pkg/store"
)

// env is everything a command needs, built once per invocation.
type env struct {
	cfg      config.Config
	log      *slog.Logger
	store    *store.Store
	gate     *seed.Gate
	resolver *seed.Resolver
	service  *anagram.Service
	details  *detail.Resolver
	settings anagram.SettingsStore
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "kanagram",
		Usage: "Look up and quiz hiragana anagrams.",
		Commands: []*cli.Command{
			searchCommand,
			quizCommand,
			detailCommand,
			applyCommand,
			settingsCommand,
			statusCommand,
		},
	}
}

// openEnv wires the store, seed resolver, and services, and kicks off
// the seed preload in the background. Commands block on the readiness
// gate through the service layer.
func openEnv(c *cli.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := config.NewLogger(cfg.Log)

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	gate := seed.NewGate()
	resolver := seed.NewResolver(st, gate, logger, cfg.Seed.SnapshotPath, cfg.Seed.TSVPath)
	go func() {
		if _, err := resolver.Preload(context.Background()); err != nil {
			logger.Error("seed preload failed", slog.String("error", err.Error()))
		}
	}()

	detailSeeds, err := detail.LoadSeed(cfg.Detail.SeedPath)
	if err != nil {
		logger.Warn("detail seed unavailable", slog.String("error", err.Error()))
	}
	var remote detail.Source
	if cfg.Detail.RemoteEnabled {
		remote = detail.NewJishoSourceWithURL(cfg.Detail.RemoteBaseURL, cfg.Detail.RemoteTimeout, logger)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &env{
		cfg:      cfg,
		log:      logger,
		store:    st,
		gate:     gate,
		resolver: resolver,
		service:  anagram.NewService(st, gate, logger, rng),
		details:  detail.NewResolver(detailSeeds, st, remote, logger),
		settings: &anagram.FileSettings{Path: filepath.Clean(cfg.Search.SettingsPath)},
	}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("store close failed", slog.String("error", err.Error()))
	}
}
