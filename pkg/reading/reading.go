// Package reading resolves a kana reading for text that contains kanji
// or katakana, so a user can search by the written form of a word.
package reading

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/kanaru-io/kanagram/pkg/hiragana"
)

// Resolver turns arbitrary Japanese text into its hiragana reading by
// morphological analysis.
type Resolver struct {
	t *tokenizer.Tokenizer
}

// NewResolver builds a resolver over the bundled IPA dictionary. The
// dictionary load is the expensive part; build once and reuse.
func NewResolver() (*Resolver, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Resolver{t: t}, nil
}

// Resolve returns the hiragana reading of text. Tokens the dictionary
// has no reading for contribute their surface form unchanged, so pure
// kana input round-trips.
func (r *Resolver) Resolve(text string) string {
	var b strings.Builder
	for _, token := range r.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}

		// IPA feature 7 is the katakana reading, "*" when unknown.
		features := token.Features()
		part := token.Surface
		if len(features) > 7 && features[7] != "*" {
			part = features[7]
		}
		b.WriteString(part)
	}
	return hiragana.KatakanaToHiragana(b.String())
}
