// Package hiragana normalizes Japanese kana input and derives anagram keys.
//
// Normalization folds katakana into hiragana and rejects anything outside
// the hiragana block, so every word stored or looked up lives in a single
// canonical script. All functions are pure and safe for concurrent use.
package hiragana

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	katakanaStart = 0x30A1
	katakanaEnd   = 0x30F6
	hiraganaStart = 0x3041
	hiraganaEnd   = 0x3096
	// foldOffset is the fixed code-point distance between the katakana and
	// hiragana blocks.
	foldOffset = 0x60
	// choonpu is the long-vowel mark, which legitimately appears inside
	// hiragana words.
	choonpu = 'ー'
)

// ErrEmptyInput is returned for a zero-length input string.
var ErrEmptyInput = errors.New("hiragana: empty input")

// ErrBlankInput is returned when the input contains only whitespace.
var ErrBlankInput = errors.New("hiragana: input is blank")

// NonHiraganaError reports characters that survive normalization but are
// not hiragana.
type NonHiraganaError struct {
	Chars []rune
}

func (e *NonHiraganaError) Error() string {
	return fmt.Sprintf("hiragana: input contains non-hiragana characters: %q", string(e.Chars))
}

// Normalize canonicalizes s into a pure-hiragana word.
//
// Steps, in order: NFKC canonicalization, whitespace removal (including
// the full-width space), katakana folding, and a hiragana-only check.
func Normalize(s string) (string, error) {
	if s == "" {
		return "", ErrEmptyInput
	}

	stripped := stripSpace(norm.NFKC.String(s))
	if stripped == "" {
		return "", ErrBlankInput
	}

	folded := KatakanaToHiragana(stripped)

	var invalid []rune
	for _, r := range folded {
		if !IsHiragana(r) {
			invalid = append(invalid, r)
		}
	}
	if len(invalid) > 0 {
		return "", &NonHiraganaError{Chars: invalid}
	}
	return folded, nil
}

// SortKey returns the characters of s sorted ascending by code point.
// Two words are anagrams of each other iff their sort keys are equal.
func SortKey(s string) string {
	runes := []rune(s)
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return string(runes)
}

// KatakanaToHiragana folds characters in the katakana block U+30A1–U+30F6
// into their hiragana counterparts. Everything else passes through.
func KatakanaToHiragana(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= katakanaStart && r <= katakanaEnd {
			r -= foldOffset
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsHiragana reports whether r is in the hiragana block U+3041–U+3096 or
// is the long-vowel mark.
func IsHiragana(r rune) bool {
	return (r >= hiraganaStart && r <= hiraganaEnd) || r == choonpu
}

// IsAllHiragana reports whether s is non-empty and entirely hiragana.
func IsAllHiragana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsHiragana(r) {
			return false
		}
	}
	return true
}

func stripSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
