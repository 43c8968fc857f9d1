// Package token turns free text into the ordered token sequences the rest
// of the engine consumes. Word boundaries follow Unicode word segmentation
// (UAX #29); a segment counts as a token only if it contains at least one
// letter or digit. Tokenization is a pure function of the text and options.
package token

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// Options control the tokenize pipeline. The zero value disables every
// step; use DefaultOptions for the engine-wide defaults.
type Options struct {
	Lowercase       bool
	RemoveStopwords bool
	MinLen          int // minimum token length in runes; 0 keeps everything
	NgramSize       int // join n adjacent tokens with spaces when > 1
	ExtraStopwords  []string
}

// DefaultOptions returns the pipeline used by every operation unless the
// caller overrides it: lowercase, stopwords removed, tokens of ≥ 2 runes.
func DefaultOptions() Options {
	return Options{Lowercase: true, RemoveStopwords: true, MinLen: 2, NgramSize: 1}
}

// Tokenize splits text with DefaultOptions.
func Tokenize(text string) []string {
	return TokenizeWith(text, DefaultOptions())
}

// TokenizeWith splits text into word tokens and applies the option pipeline
// in order: lowercase, stopword removal, minimum length, n-gram join.
// Empty input yields an empty (non-nil) slice regardless of options.
func TokenizeWith(text string, opts Options) []string {
	out := []string{}
	extra := extraSet(opts.ExtraStopwords)
	iter := words.FromString(text)
	for iter.Next() {
		tok := iter.Value()
		if !wordlike(tok) {
			continue
		}
		if opts.Lowercase {
			tok = lower(tok)
		}
		if opts.RemoveStopwords {
			lc := lower(tok)
			if _, ok := stopwords[lc]; ok {
				continue
			}
			if _, ok := extra[lc]; ok {
				continue
			}
		}
		if opts.MinLen > 0 && runeLen(tok) < opts.MinLen {
			continue
		}
		out = append(out, tok)
	}
	if opts.NgramSize > 1 && len(out) > 0 {
		return WordNgrams(out, opts.NgramSize)
	}
	return out
}

// Shingles returns the character n-grams of the lowercased text. Text
// shorter than n is returned whole as a single shingle.
func Shingles(text string, n int) []string {
	lowered := lower(text)
	runes := []rune(lowered)
	if n <= 0 || len(runes) < n {
		return []string{lowered}
	}
	out := make([]string, 0, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		out = append(out, string(runes[i:i+n]))
	}
	return out
}

// WordNgrams joins every window of n adjacent tokens with single spaces.
// Fewer than n tokens collapse to one joined entry.
func WordNgrams(tokens []string, n int) []string {
	if n <= 0 || len(tokens) < n {
		return []string{strings.Join(tokens, " ")}
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+n], " "))
	}
	return out
}

func wordlike(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func extraSet(extra []string) map[string]struct{} {
	if len(extra) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(extra))
	for _, w := range extra {
		set[lower(w)] = struct{}{}
	}
	return set
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func lower(s string) string { return strings.ToLower(s) }
