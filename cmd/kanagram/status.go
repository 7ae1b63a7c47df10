package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kanaru-io/kanagram/pkg/anagram"
	"github.com/kanaru-io/kanagram/pkg/store"
)

var statusCommand = &cli.Command{
	Name:  "status",
	Usage: "Show the store's seed source, entry counts, and settings",
	Action: func(c *cli.Context) error {
		e, err := openEnv(c)
		if err != nil {
			return err
		}
		defer e.close()

		metrics, err := e.resolver.Preload(c.Context)
		if err != nil {
			return err
		}

		total, err := e.store.Count(c.Context)
		if err != nil {
			return err
		}
		common, err := e.store.CountCommonInRange(c.Context, anagram.LengthFloor, anagram.LengthCeiling)
		if err != nil {
			return err
		}
		settings, err := e.settings.Load()
		if err != nil {
			return err
		}

		fmt.Printf("database:       %s\n", e.cfg.Database.Path)
		fmt.Printf("schema version: %d\n", store.SchemaVersion)
		fmt.Printf("seed source:    %s\n", metrics.Source)
		fmt.Printf("entries:        %d (%d common)\n", total, common)
		fmt.Printf("length window:  %d-%d\n", settings.MinLength, settings.MaxLength)
		return nil
	},
}
