// Package jmdict streams readings out of a JMdict-format XML lexicon and
// turns them into normalized, deduplicated anagram rows.
//
// The lexicon is large (hundreds of megabytes uncompressed), so parsing
// is a pull loop over xml.Decoder tokens; the document is never held in
// memory as a whole.
package jmdict

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kanaru-io/kanagram/pkg/hiragana"
)

// CommonTagPattern is the default frequency-priority tag pattern marking
// a reading as common. The tag semantics come from the upstream lexicon
// and are treated as policy: override via ParseOptions.CommonTags.
var CommonTagPattern = regexp.MustCompile(`^(?:news[12]|ichi[12]|spec[12]|gai[12]|nf\d+)$`)

// Row is one accepted reading, ready for export or insertion.
type Row struct {
	SortedKey string
	Word      string
	Length    int
	IsCommon  bool
}

// Stats counts what the parser saw and why readings were dropped.
type Stats struct {
	Entries        int
	Readings       int
	Kept           int
	Duplicates     int
	FilteredLength int
	FilteredScript int
}

// ParseOptions controls filtering during a parse.
type ParseOptions struct {
	// MinLen and MaxLen bound the accepted word length in characters.
	MinLen int
	MaxLen int
	// Limit stops the parse after this many accepted rows; 0 means
	// unbounded.
	Limit int
	// CommonTags overrides CommonTagPattern when non-nil.
	CommonTags *regexp.Regexp
	// Progress, when set, is called every 1000 lexicon entries.
	Progress func(entries int)
}

type rawReading struct {
	text string
	tags []string
}

// Parse streams the lexicon from r. A reading is accepted when its
// normalized form is pure hiragana and its length falls inside the
// configured window; the first occurrence of a normalized word wins and
// later duplicates are dropped.
func Parse(ctx context.Context, r io.Reader, opts ParseOptions) ([]Row, Stats, error) {
	if opts.MinLen < 1 || opts.MaxLen < opts.MinLen {
		return nil, Stats{}, fmt.Errorf("jmdict: invalid length window [%d, %d]", opts.MinLen, opts.MaxLen)
	}
	commonTags := opts.CommonTags
	if commonTags == nil {
		commonTags = CommonTagPattern
	}

	dec := xml.NewDecoder(r)
	// The lexicon DTD declares custom entities for parts of speech and
	// similar tags; non-strict mode lets them pass through instead of
	// aborting the parse.
	dec.Strict = false

	var (
		rows     []Row
		stats    Stats
		seen     = make(map[string]struct{})
		readings []rawReading
		current  rawReading
		buf      strings.Builder
		inReb    bool
		inRePri  bool
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("jmdict: parse: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "entry":
				readings = readings[:0]
			case "r_ele":
				current = rawReading{}
			case "reb":
				inReb = true
				buf.Reset()
			case "re_pri":
				inRePri = true
				buf.Reset()
			}
		case xml.CharData:
			if inReb || inRePri {
				buf.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "reb":
				inReb = false
				current.text = strings.TrimSpace(buf.String())
			case "re_pri":
				inRePri = false
				if tag := strings.TrimSpace(buf.String()); tag != "" {
					current.tags = append(current.tags, tag)
				}
			case "r_ele":
				if current.text != "" {
					readings = append(readings, current)
				}
			case "entry":
				stats.Entries++
				for _, reading := range readings {
					stats.Readings++
					row, ok := acceptReading(reading, opts, commonTags, seen, &stats)
					if !ok {
						continue
					}
					rows = append(rows, row)
					stats.Kept++
					if opts.Limit > 0 && len(rows) >= opts.Limit {
						return rows, stats, nil
					}
				}
				if opts.Progress != nil && stats.Entries%1000 == 0 {
					opts.Progress(stats.Entries)
				}
			}
		}
	}

	return rows, stats, nil
}

func acceptReading(reading rawReading, opts ParseOptions, commonTags *regexp.Regexp, seen map[string]struct{}, stats *Stats) (Row, bool) {
	word, err := hiragana.Normalize(reading.text)
	if err != nil {
		stats.FilteredScript++
		return Row{}, false
	}

	length := utf8.RuneCountInString(word)
	if length < opts.MinLen || length > opts.MaxLen {
		stats.FilteredLength++
		return Row{}, false
	}

	if _, dup := seen[word]; dup {
		stats.Duplicates++
		return Row{}, false
	}
	seen[word] = struct{}{}

	isCommon := false
	for _, tag := range reading.tags {
		if commonTags.MatchString(tag) {
			isCommon = true
			break
		}
	}

	return Row{
		SortedKey: hiragana.SortKey(word),
		Word:      word,
		Length:    length,
		IsCommon:  isCommon,
	}, true
}
