package main

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kanaru-io/kanagram/pkg/anagram"
	"github.com/kanaru-io/kanagram/pkg/hiragana"
)

// Difficulty presets are word-length windows.
var difficulties = map[string][2]int{
	"easy":   {3, 5},
	"normal": {5, 8},
	"hard":   {7, 12},
}

// quizWindow picks the length window for a round: a named difficulty
// preset when given, otherwise the persisted search settings.
func quizWindow(difficulty string, settings anagram.SettingsStore) (int, int, error) {
	if difficulty != "" {
		window, ok := difficulties[difficulty]
		if !ok {
			return 0, 0, fmt.Errorf("unknown difficulty %q", difficulty)
		}
		return window[0], window[1], nil
	}
	s, err := settings.Load()
	if err != nil {
		return 0, 0, err
	}
	return s.MinLength, s.MaxLength, nil
}

var quizCommand = &cli.Command{
	Name:  "quiz",
	Usage: "Play rounds of unscrambling a shuffled word",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "difficulty",
			Usage: "one of easy, normal, hard (default: the saved length window)",
		},
		&cli.IntFlag{
			Name:  "rounds",
			Usage: "number of questions to play",
			Value: 5,
		},
	},
	Action: func(c *cli.Context) error {
		e, err := openEnv(c)
		if err != nil {
			return err
		}
		defer e.close()

		minLen, maxLen, err := quizWindow(c.String("difficulty"), e.settings)
		if err != nil {
			return err
		}

		scanner := bufio.NewScanner(os.Stdin)
		correct := 0
		played := 0
		for round := 0; round < c.Int("rounds"); round++ {
			q, err := e.service.GenerateQuestion(c.Context, minLen, maxLen)
			if err != nil {
				return err
			}
			if q == nil {
				fmt.Println("no words available for this difficulty")
				break
			}
			played++

			fmt.Printf("\n%d) %s\n> ", round+1, strings.Join(q.Shuffled, " "))
			if !scanner.Scan() {
				break
			}
			answer, err := hiragana.Normalize(scanner.Text())
			if err != nil {
				fmt.Println("answers must be hiragana")
				round--
				played--
				continue
			}

			if slices.Contains(q.Answers, answer) {
				correct++
				fmt.Println("correct!")
			} else {
				fmt.Printf("nope. answers: %s\n", strings.Join(q.Answers, ", "))
			}
		}

		fmt.Printf("\n%d/%d correct\n", correct, played)
		return scanner.Err()
	},
}
