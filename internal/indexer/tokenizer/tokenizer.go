// Package tokenizer splits document text into lower-cased terms. A term is a
// maximal run of ASCII letters and digits; every other byte, including each
// byte of a multi-byte UTF-8 sequence, is a separator. There is no stemming
// and no stop-word removal, so "cats" never matches a lexicon entry "cat".
package tokenizer

import (
	"iter"
	"strings"
)

// Tokens returns a lazy sequence over the terms of text. The sequence can be
// ranged over any number of times and yields the same terms each time.
func Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := -1
		for i := 0; i < len(text); i++ {
			if isAlnum(text[i]) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				if !yield(lower(text[start:i])) {
					return
				}
				start = -1
			}
		}
		if start >= 0 {
			yield(lower(text[start:]))
		}
	}
}

// Tokenize collects Tokens into a slice.
func Tokenize(text string) []string {
	tokens := make([]string, 0, len(text)/6)
	for tok := range Tokens(text) {
		tokens = append(tokens, tok)
	}
	return tokens
}

func isAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// lower avoids an allocation when the run is already lower case.
func lower(s string) string {
	for i := 0; i < len(s); i++ {
		if 'A' <= s[i] && s[i] <= 'Z' {
			return strings.ToLower(s)
		}
	}
	return s
}
