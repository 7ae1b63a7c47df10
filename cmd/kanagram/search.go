package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kanaru-io/kanagram/pkg/hiragana"
	"github.com/kanaru-io/kanagram/pkg/reading"
)

var searchCommand = &cli.Command{
	Name:      "search",
	Usage:     "List every dictionary word that is an anagram of the input",
	ArgsUsage: "WORD",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "details",
			Usage:   "show the kanji form and meaning for each match",
			Aliases: []string{"d"},
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return errors.New("search takes exactly one word")
		}
		e, err := openEnv(c)
		if err != nil {
			return err
		}
		defer e.close()

		input := c.Args().First()
		words, err := e.service.Lookup(c.Context, input)

		// Kanji or mixed-script input gets one retry through the
		// morphological reading before giving up.
		var nonHiragana *hiragana.NonHiraganaError
		if errors.As(err, &nonHiragana) {
			resolver, rerr := reading.NewResolver()
			if rerr != nil {
				return rerr
			}
			resolved := resolver.Resolve(input)
			fmt.Printf("reading: %s\n", resolved)
			words, err = e.service.Lookup(c.Context, resolved)
		}
		if err != nil {
			return err
		}

		if len(words) == 0 {
			fmt.Println("no matches")
			return nil
		}
		for _, word := range words {
			if !c.Bool("details") {
				fmt.Println(word)
				continue
			}
			d, derr := e.details.Resolve(c.Context, word)
			if derr != nil {
				return derr
			}
			if d == nil {
				fmt.Println(word)
			} else {
				fmt.Printf("%s\t%s\t%s\n", word, d.Kanji, d.Meaning)
			}
		}
		return nil
	},
}
