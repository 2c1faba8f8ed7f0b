// Package text provides the whitespace normalization and tokenization used
// by every extraction and scoring step.
package text

import (
	"regexp"
	"strings"
)

var (
	wordRe = regexp.MustCompile(`[\w']+`)
)

// Clean collapses any run of whitespace (spaces, tabs, newlines) to a single
// space and trims the result. Idempotent.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Tokens returns the word-like tokens (alphanumeric plus apostrophes) of s,
// in order. Used to reduce scorer input to plain words.
func Tokens(s string) []string {
	return wordRe.FindAllString(s, -1)
}
