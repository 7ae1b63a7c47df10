package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

var detailCommand = &cli.Command{
	Name:      "detail",
	Usage:     "Show the kanji form and meaning for a word",
	ArgsUsage: "WORD",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return errors.New("detail takes exactly one word")
		}
		e, err := openEnv(c)
		if err != nil {
			return err
		}
		defer e.close()

		d, err := e.details.Resolve(c.Context, c.Args().First())
		if err != nil {
			return err
		}
		if d == nil {
			fmt.Println("no detail available")
			return nil
		}
		fmt.Printf("kanji:   %s\nmeaning: %s\n", d.Kanji, d.Meaning)
		return nil
	},
}
