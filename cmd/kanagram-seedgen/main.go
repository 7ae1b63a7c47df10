// Command kanagram-seedgen builds seed artifacts from a JMdict XML
// lexicon: a tab-separated word list, a prebuilt indexed database
// snapshot, or both.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/urfave/cli/v2"

	"github.com/kanaru-io/kanagram/pkg/config"
	"github.com/kanaru-io/kanagram/pkg/export"
	"github.com/kanaru-io/kanagram/pkg/jmdict"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "kanagram-seedgen:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "kanagram-seedgen",
		Usage: "Generate anagram seed files from a JMdict lexicon.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "jmdict",
				Usage:    "path to the JMdict XML file (optionally .gz)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "out-tsv",
				Usage: "destination for the TSV export",
				Value: "anagram.tsv",
			},
			&cli.StringFlag{
				Name:  "out-db",
				Usage: "destination for the database snapshot",
				Value: "anagram.db",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "which artifacts to write: tsv, db, or both",
				Value: "both",
			},
			&cli.IntFlag{
				Name:  "min-len",
				Usage: "shortest reading to keep",
				Value: 2,
			},
			&cli.IntFlag{
				Name:  "max-len",
				Usage: "longest reading to keep",
				Value: 8,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "stop after this many kept readings (0 = no limit)",
			},
			&cli.StringFlag{
				Name:  "common-tags",
				Usage: "regular expression marking priority tags as common",
			},
			&cli.BoolFlag{
				Name:  "download",
				Usage: "download the lexicon when the --jmdict path is absent",
			},
			&cli.StringFlag{
				Name:  "lexicon-url",
				Usage: "lexicon download location",
				Value: jmdict.DefaultLexiconURL,
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "overwrite existing destinations",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Log)

	mode := c.String("mode")
	if mode != "tsv" && mode != "db" && mode != "both" {
		return fmt.Errorf("invalid mode %q: want tsv, db, or both", mode)
	}

	opts := jmdict.ParseOptions{
		MinLen: c.Int("min-len"),
		MaxLen: c.Int("max-len"),
		Limit:  c.Int("limit"),
		Progress: func(entries int) {
			logger.Info("parsing", slog.Int("entries", entries))
		},
	}
	if pattern := c.String("common-tags"); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid common-tags pattern: %w", err)
		}
		opts.CommonTags = re
	}

	if c.Bool("download") {
		if err := jmdict.EnsureLexicon(c.Context, c.String("jmdict"), c.String("lexicon-url"), logger); err != nil {
			return err
		}
	}

	src, err := jmdict.Open(c.String("jmdict"))
	if err != nil {
		return err
	}
	rows, stats, err := jmdict.Parse(c.Context, src, opts)
	src.Close()
	if err != nil {
		return err
	}

	logger.Info("parse finished",
		slog.Int("entries", stats.Entries),
		slog.Int("readings", stats.Readings),
		slog.Int("kept", stats.Kept),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("filtered_length", stats.FilteredLength),
		slog.Int("filtered_script", stats.FilteredScript),
	)

	force := c.Bool("force")
	if mode == "tsv" || mode == "both" {
		if err := writeTSV(rows, c.String("out-tsv"), force, logger); err != nil {
			return err
		}
	}
	if mode == "db" || mode == "both" {
		if err := export.Snapshot(c.Context, rows, c.String("out-db"), force); err != nil {
			if errors.Is(err, export.ErrExists) {
				return fmt.Errorf("%w (use --force to overwrite)", err)
			}
			return err
		}
		logger.Info("snapshot written", slog.String("path", c.String("out-db")), slog.Int("rows", len(rows)))
	}
	return nil
}

func writeTSV(rows []jmdict.Row, path string, force bool, logger *slog.Logger) error {
	if err := export.TSV(rows, path, force); err != nil {
		if errors.Is(err, export.ErrExists) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return err
	}
	logger.Info("tsv written", slog.String("path", path), slog.Int("rows", len(rows)))
	return nil
}
