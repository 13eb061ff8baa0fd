/*
Package profanity provides a word-list based content filter.

The filter is a pure predicate over message text: it tokenizes on
non-alphanumeric boundaries, lowercases, and matches tokens against a
configurable block list. No state is retained between calls.
*/
package profanity

import (
	"strings"
	"unicode"
)

// defaultWords is the built-in block list. Matching is exact per token after
// lowercasing, so "Damn!" matches but "classic" does not.
var defaultWords = []string{
	"arse",
	"ass",
	"asshole",
	"bastard",
	"bitch",
	"bollocks",
	"crap",
	"damn",
	"dick",
	"piss",
	"prick",
	"shit",
	"fuck",
	"fucking",
	"twat",
	"wanker",
}

// Filter matches message text against a block list of words.
type Filter struct {
	words map[string]struct{}
}

// NewFilter returns a Filter seeded with the default block list plus any
// extra words supplied by the caller.
func NewFilter(extra ...string) *Filter {
	words := make(map[string]struct{}, len(defaultWords)+len(extra))

	for _, w := range defaultWords {
		words[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range extra {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			words[w] = struct{}{}
		}
	}

	return &Filter{words: words}
}

// IsProfane reports whether any token of text is on the block list.
func (f *Filter) IsProfane(text string) bool {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	for _, token := range tokens {
		if _, ok := f.words[token]; ok {
			return true
		}
	}

	return false
}
