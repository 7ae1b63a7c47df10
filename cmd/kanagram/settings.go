package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kanaru-io/kanagram/pkg/anagram"
)

var settingsCommand = &cli.Command{
	Name:  "settings",
	Usage: "Show or change the saved search length window",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "min",
			Usage: "shortest word length to search",
		},
		&cli.IntFlag{
			Name:  "max",
			Usage: "longest word length to search",
		},
	},
	Action: func(c *cli.Context) error {
		e, err := openEnv(c)
		if err != nil {
			return err
		}
		defer e.close()

		current, err := e.settings.Load()
		if err != nil {
			return err
		}

		if c.IsSet("min") || c.IsSet("max") {
			next := current
			if c.IsSet("min") {
				next.MinLength = c.Int("min")
			}
			if c.IsSet("max") {
				next.MaxLength = c.Int("max")
			}
			// Save clamps; reload so the printed window is what stuck.
			if err := e.settings.Save(next); err != nil {
				return err
			}
			current, err = e.settings.Load()
			if err != nil {
				return err
			}
		}

		fmt.Printf("length window: %d-%d (bounds %d-%d)\n",
			current.MinLength, current.MaxLength, anagram.LengthFloor, anagram.LengthCeiling)
		return nil
	},
}
