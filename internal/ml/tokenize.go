// Package ml holds the text classification primitives used by the resume
// screener: tokenization, a TF-IDF vectorizer, a multinomial logistic
// regression classifier and the helpers used to train and evaluate them.
package ml

import (
	"regexp"
	"strings"
)

var (
	wordPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)
	termPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)
)

// Words splits text into lowercase runs of Unicode word characters.
func Words(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// Terms is like Words but drops single-character tokens. It is the tokenizer
// the vectorizer indexes features with.
func Terms(text string) []string {
	return termPattern.FindAllString(strings.ToLower(text), -1)
}

// WordSet returns the distinct Words of text.
func WordSet(text string) map[string]struct{} {
	words := Words(text)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
