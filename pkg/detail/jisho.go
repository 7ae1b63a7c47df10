package detail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://jisho.org/api/v1/search/words"
	defaultTimeout = 5 * time.Second

	// maxMeaningItems bounds the number of definitions joined into the
	// gloss.
	maxMeaningItems = 3
)

// JishoSource fetches candidate details from the Jisho word-search API.
type JishoSource struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewJishoSource creates a source against the public Jisho API with a
// bounded request timeout.
func NewJishoSource(logger *slog.Logger) *JishoSource {
	return NewJishoSourceWithURL(defaultBaseURL, defaultTimeout, logger)
}

// NewJishoSourceWithURL creates a source with a custom base URL and
// timeout (for testing).
func NewJishoSourceWithURL(baseURL string, timeout time.Duration, logger *slog.Logger) *JishoSource {
	return &JishoSource{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "jisho"),
	}
}

type apiResponse struct {
	Data []apiEntry `json:"data"`
}

type apiEntry struct {
	Japanese []apiJapanese `json:"japanese"`
	Senses   []apiSense    `json:"senses"`
}

type apiJapanese struct {
	Word    string `json:"word"`
	Reading string `json:"reading"`
}

type apiSense struct {
	EnglishDefinitions []string `json:"english_definitions"`
}

// Fetch looks word up remotely. Any shape deviation in the response
// yields (nil, nil); transport and status failures are returned as
// errors for the caller to degrade on.
func (s *JishoSource) Fetch(ctx context.Context, word string) (*Detail, error) {
	reqURL := s.baseURL + "?keyword=" + url.QueryEscape(word)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("jisho: create request: %w", err)
	}

	s.log.Debug("jisho request", slog.String("word", word))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jisho: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("jisho: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jisho: read body: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("jisho: decode json: %w", err)
	}

	d := mapResponse(word, parsed.Data)
	s.log.Debug("jisho response",
		slog.String("word", word),
		slog.Bool("found", d != nil))
	return d, nil
}

// mapResponse picks the best candidate for word. Within an entry the
// candidate whose reading or written form equals the query wins,
// otherwise the entry's first candidate; an entry with no usable gloss
// is skipped and the next one tried.
func mapResponse(word string, entries []apiEntry) *Detail {
	for _, entry := range entries {
		if len(entry.Japanese) == 0 {
			continue
		}

		best := entry.Japanese[0]
		for _, candidate := range entry.Japanese {
			if candidate.Reading == word || candidate.Word == word {
				best = candidate
				break
			}
		}

		meaning := extractMeaning(entry.Senses)
		if meaning == "" {
			continue
		}

		kanji := best.Word
		if kanji == "" {
			kanji = best.Reading
		}
		if kanji == "" {
			kanji = word
		}
		return &Detail{Kanji: kanji, Meaning: meaning}
	}
	return nil
}

func extractMeaning(senses []apiSense) string {
	var defs []string
	for _, sense := range senses {
		for _, def := range sense.EnglishDefinitions {
			def = strings.TrimSpace(def)
			if def == "" {
				continue
			}
			defs = append(defs, def)
			if len(defs) >= maxMeaningItems {
				return strings.Join(defs, ", ")
			}
		}
	}
	return strings.Join(defs, ", ")
}
