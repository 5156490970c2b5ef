// Package textmatch re-tests a full-text query against individual field
// values, so callers can tell which fields of a search hit contributed to
// the match.
package textmatch

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// operators are full-text query keywords that never count as terms.
var operators = map[string]bool{
	"AND":  true,
	"OR":   true,
	"NOT":  true,
	"NEAR": true,
}

// Tokenize lowercases text and splits it into runs of letters and digits.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Stem reduces an English word to its stem. Words the stemmer rejects are
// returned unchanged.
func Stem(word string) string {
	stemmed, err := snowball.Stem(word, "english", false)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}

// Matcher holds the stemmed terms of one query.
type Matcher struct {
	stems    map[string]bool
	prefixes []string
}

// New parses query into terms. Operator keywords are skipped and a trailing
// '*' turns a word into a prefix term.
func New(query string) *Matcher {
	m := &Matcher{stems: make(map[string]bool)}
	for _, field := range strings.Fields(query) {
		if operators[field] {
			continue
		}
		prefix := strings.HasSuffix(field, "*")
		words := Tokenize(field)
		for n, w := range words {
			if prefix && n == len(words)-1 {
				m.prefixes = append(m.prefixes, w)
				continue
			}
			m.stems[Stem(w)] = true
		}
	}
	return m
}

// Empty reports whether the query had no usable terms.
func (m *Matcher) Empty() bool {
	return len(m.stems) == 0 && len(m.prefixes) == 0
}

// Match reports whether any token of text matches any query term.
func (m *Matcher) Match(text string) bool {
	for _, tok := range Tokenize(text) {
		if m.stems[Stem(tok)] {
			return true
		}
		for _, p := range m.prefixes {
			if strings.HasPrefix(tok, p) {
				return true
			}
		}
	}
	return false
}

// Contains reports whether text contains sub, ignoring case.
func Contains(text, sub string) bool {
	return sub != "" && strings.Contains(strings.ToLower(text), strings.ToLower(sub))
}
