package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kanaru-io/kanagram/pkg/seed"
)

var applyCommand = &cli.Command{
	Name:      "apply",
	Usage:     "Merge an additional dictionary file into the store",
	ArgsUsage: "FILE",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return errors.New("apply takes exactly one file")
		}
		path := c.Args().First()

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		entries, err := seed.ParseEntries(f, path)
		f.Close()
		if err != nil {
			return err
		}

		e, err := openEnv(c)
		if err != nil {
			return err
		}
		defer e.close()

		inserted, supplied, err := e.service.ApplyAdditional(c.Context, entries)
		if err != nil {
			return err
		}
		fmt.Printf("applied %d new of %d supplied entries\n", inserted, supplied)
		return nil
	},
}
